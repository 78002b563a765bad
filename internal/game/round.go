package game

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"quizlive/internal/model"
)

// RoundState is the lifecycle state of one player's question round.
type RoundState string

const (
	StateIdle            RoundState = "IDLE"
	StateOpen            RoundState = "OPEN"
	StateLockedReviewing RoundState = "LOCKED_REVIEWING"
	StateFinished        RoundState = "FINISHED"
)

// EventType tags the engine events consumed by the transport layer.
type EventType string

const (
	EventQuestionOpened EventType = "question_opened"
	EventCountdownTick  EventType = "countdown_tick"
	EventRoundLocked    EventType = "round_locked"
	EventReviewTick     EventType = "review_tick"
	EventAdvanced       EventType = "advanced"
	EventFinished       EventType = "finished"
	EventAnswerResult   EventType = "answer_result"
)

// Default engine timings, matching the live game the service runs.
const (
	DefaultTimerDuration   = 240 * time.Second
	DefaultReviewDuration  = 15 * time.Second
	DefaultOpenGrace       = 350 * time.Millisecond
	DefaultAdvanceFallback = 250 * time.Millisecond
)

// Remote fallback cues clients can always reach when no local asset exists.
const (
	DefaultCorrectSound = "https://www.soundjay.com/buttons/sounds/button-09.mp3"
	DefaultWrongSound   = "https://assets.mixkit.co/sfx/preview/mixkit-wrong-answer-fail-notification-946.mp3"
)

// Config holds the engine timings and sound cues.
type Config struct {
	TimerDuration   time.Duration
	ReviewDuration  time.Duration
	OpenGrace       time.Duration
	AdvanceFallback time.Duration
	CorrectSound    string
	WrongSound      string
}

func (c Config) withDefaults() Config {
	if c.TimerDuration <= 0 {
		c.TimerDuration = DefaultTimerDuration
	}
	if c.ReviewDuration <= 0 {
		c.ReviewDuration = DefaultReviewDuration
	}
	if c.OpenGrace <= 0 {
		c.OpenGrace = DefaultOpenGrace
	}
	if c.AdvanceFallback <= 0 {
		c.AdvanceFallback = DefaultAdvanceFallback
	}
	if c.CorrectSound == "" {
		c.CorrectSound = DefaultCorrectSound
	}
	if c.WrongSound == "" {
		c.WrongSound = DefaultWrongSound
	}
	return c
}

// AnswerResult is the per-selection outcome returned to the player.
type AnswerResult struct {
	QuestionIndex int     `json:"questionIndex"`
	OptionIndex   int     `json:"optionIndex"`
	Correct       bool    `json:"correct"`
	CorrectIndex  int     `json:"correctIndex"`
	Points        float64 `json:"points"`
	TotalScore    float64 `json:"totalScore"`
	Sound         string  `json:"sound,omitempty"`
}

// Totals are the engine's local accumulated counters. They only grow within a
// session; nothing recomputes them retroactively for the local player.
type Totals struct {
	Score     float64 `json:"score"`
	Answered  int     `json:"answered"`
	Correct   int     `json:"correct"`
	Questions int     `json:"questions"`
}

// Event is what the engine pushes toward the player's connection.
type Event struct {
	Type             EventType     `json:"type"`
	QuestionIndex    int           `json:"questionIndex"`
	SecondsRemaining int           `json:"secondsRemaining,omitempty"`
	ReviewRemaining  int           `json:"reviewRemaining,omitempty"`
	CorrectIndex     int           `json:"correctIndex,omitempty"`
	Sound            string        `json:"sound,omitempty"`
	Result           *AnswerResult `json:"result,omitempty"`
	Totals           *Totals       `json:"totals,omitempty"`
}

// SubmitFunc ships an answer event to the shared store. Submission is
// best-effort on the scoring path: the engine logs failures and moves on.
type SubmitFunc func(model.AnswerEvent) error

// Engine drives one player's question lifecycle:
// IDLE -> OPEN -> LOCKED_REVIEWING -> IDLE ... -> FINISHED. All transitions
// serialize through one mutex; timers are clockwork timers so any pending one
// can be cancelled when the state moves on, and tests can run a fake clock.
type Engine struct {
	cfg         Config
	questions   []model.Question
	clock       clockwork.Clock
	participant model.Participant
	submit      SubmitFunc
	events      chan Event

	mu          sync.Mutex
	state       RoundState
	index       int
	secondsLeft int
	reviewLeft  int
	selected    int
	advanced    bool
	openedAt    time.Time
	sessionID   string
	score       float64
	answered    int
	correct     int
	// gen is bumped on every transition that must invalidate pending timers;
	// a timer callback holding a stale gen is a no-op.
	gen    int
	stop   chan struct{}
	closed bool
}

// NewEngine creates an idle engine for one participant. Call Start (or feed it
// a control update) to open the first question.
func NewEngine(cfg Config, questions []model.Question, participant model.Participant, clock clockwork.Clock, submit SubmitFunc) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{
		cfg:         cfg.withDefaults(),
		questions:   questions,
		clock:       clock,
		participant: participant,
		submit:      submit,
		events:      make(chan Event, 64),
		state:       StateIdle,
		selected:    -1,
		stop:        make(chan struct{}),
	}
}

// Events returns the engine's outbound event stream. The channel closes when
// the engine closes; slow consumers lose intermediate ticks, never state.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Start opens the question at the current index.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.openQuestionLocked(e.index)
}

// SetQuestionIndex forces the engine onto a question index, resetting the
// countdown and selection. Entering the index past the last question finishes
// the game.
func (e *Engine) SetQuestionIndex(idx int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || idx < 0 {
		return
	}
	if idx == e.index && e.state == StateOpen {
		return
	}
	e.openQuestionLocked(idx)
}

// ApplyControl reacts to a presenter control update: a new session token
// restarts the local game, and a presenter index ahead of the local one drags
// the engine forward. Local auto-advance after review remains the normal path.
func (e *Engine) ApplyControl(ctrl model.GameControl) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if ctrl.SessionID != "" && ctrl.SessionID != e.sessionID {
		prev := e.sessionID
		e.sessionID = ctrl.SessionID
		if prev != "" {
			e.resetCountersLocked()
			if ctrl.GameStarted {
				e.openQuestionLocked(0)
			} else {
				e.toIdleLocked()
			}
			return
		}
	}
	if !ctrl.GameStarted {
		return
	}
	if e.state == StateIdle {
		e.openQuestionLocked(e.index)
		return
	}
	if e.state != StateFinished && ctrl.CurrentQuestion > e.index {
		e.openQuestionLocked(ctrl.CurrentQuestion)
	}
}

// Select records the player's option choice for the open question. It scores
// locally, ships the answer event to the shared store best-effort, and moves
// the round into review.
func (e *Engine) Select(optionIndex int) (AnswerResult, error) {
	e.mu.Lock()
	if e.closed || e.state == StateFinished {
		e.mu.Unlock()
		return AnswerResult{}, model.ErrGameFinished
	}
	if e.state != StateOpen {
		e.mu.Unlock()
		return AnswerResult{}, model.ErrRoundLocked
	}
	if e.clock.Since(e.openedAt) < e.cfg.OpenGrace {
		e.mu.Unlock()
		return AnswerResult{}, model.ErrInputSuppressed
	}
	q := e.questions[e.index]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		e.mu.Unlock()
		return AnswerResult{}, model.ErrOptionOutOfRange
	}

	durSec := int(e.cfg.TimerDuration / time.Second)
	correct := optionIndex == q.CorrectIndex
	points := PointsEarned(correct, e.secondsLeft, durSec)

	e.selected = optionIndex
	e.score += points
	e.answered++
	if correct {
		e.correct++
	}

	sound := e.cfg.WrongSound
	if correct {
		sound = e.cfg.CorrectSound
	}
	result := AnswerResult{
		QuestionIndex: e.index,
		OptionIndex:   optionIndex,
		Correct:       correct,
		CorrectIndex:  q.CorrectIndex,
		Points:        points,
		TotalScore:    e.score,
		Sound:         sound,
	}
	answer := model.AnswerEvent{
		ParticipantID:    e.participant.ID,
		QuestionIndex:    e.index,
		OptionIndex:      optionIndex,
		Name:             e.participant.Name,
		Email:            e.participant.Email,
		Phone:            e.participant.Phone,
		SecondsRemaining: e.secondsLeft,
		TimerDuration:    durSec,
		Timestamp:        e.clock.Now().UnixMilli(),
	}

	e.emitLocked(Event{Type: EventAnswerResult, QuestionIndex: e.index, Result: &result})
	e.lockAndReviewLocked("")
	e.mu.Unlock()

	if e.submit != nil {
		go func() {
			if err := e.submit(answer); err != nil {
				log.Warn().Err(err).
					Str("participant_id", answer.ParticipantID).
					Int("question_index", answer.QuestionIndex).
					Msg("answer store write failed, keeping local score")
			}
		}()
	}
	return result, nil
}

// Restart zeroes the local counters and returns to question 0. The shared
// answer store is untouched; clearing it is a presenter-only action.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.resetCountersLocked()
	e.openQuestionLocked(0)
}

// Close cancels all pending timers and closes the event stream.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.cancelPhaseLocked()
	e.closed = true
	e.state = StateIdle
	close(e.events)
}

// Summary is a point-in-time view of the engine.
type Summary struct {
	State            RoundState `json:"state"`
	QuestionIndex    int        `json:"questionIndex"`
	SecondsRemaining int        `json:"secondsRemaining"`
	Totals           Totals     `json:"totals"`
}

// Snapshot reports the current state without disturbing it.
func (e *Engine) Snapshot() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Summary{
		State:            e.state,
		QuestionIndex:    e.index,
		SecondsRemaining: e.secondsLeft,
		Totals:           e.totalsLocked(),
	}
}

func (e *Engine) totalsLocked() Totals {
	return Totals{
		Score:     e.score,
		Answered:  e.answered,
		Correct:   e.correct,
		Questions: len(e.questions),
	}
}

func (e *Engine) resetCountersLocked() {
	e.score = 0
	e.answered = 0
	e.correct = 0
	e.index = 0
}

func (e *Engine) toIdleLocked() {
	e.cancelPhaseLocked()
	e.state = StateIdle
	e.selected = -1
}

// openQuestionLocked enters a question index: countdown reset, selection and
// feedback cleared, OPEN entered. An index past the set finishes the game.
func (e *Engine) openQuestionLocked(idx int) {
	e.cancelPhaseLocked()
	e.index = idx
	if idx >= len(e.questions) {
		e.state = StateFinished
		t := e.totalsLocked()
		e.emitLocked(Event{Type: EventFinished, QuestionIndex: idx, Totals: &t})
		return
	}
	e.state = StateOpen
	e.secondsLeft = int(e.cfg.TimerDuration / time.Second)
	e.selected = -1
	e.advanced = false
	e.openedAt = e.clock.Now()
	e.emitLocked(Event{Type: EventQuestionOpened, QuestionIndex: idx, SecondsRemaining: e.secondsLeft})

	go e.runCountdown(e.gen, e.stop)
}

func (e *Engine) runCountdown(gen int, stop chan struct{}) {
	ticker := e.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.Chan():
			if !e.countdownTick(gen) {
				return
			}
		case <-stop:
			return
		}
	}
}

func (e *Engine) countdownTick(gen int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen || e.state != StateOpen {
		return false
	}
	e.secondsLeft--
	if e.secondsLeft <= 0 {
		e.secondsLeft = 0
		e.emitLocked(Event{Type: EventCountdownTick, QuestionIndex: e.index, SecondsRemaining: 0})
		// Time ran out with no selection: the round is lost for zero points.
		e.lockAndReviewLocked(e.cfg.WrongSound)
		return false
	}
	e.emitLocked(Event{Type: EventCountdownTick, QuestionIndex: e.index, SecondsRemaining: e.secondsLeft})
	return true
}

// lockAndReviewLocked blocks input, reveals the correct answer, and starts the
// secondary countdown toward auto-advance. A fallback timer a little past the
// review window guarantees the advance even if the primary ticker stalls;
// whichever fires first wins and the advanced flag keeps the advance single.
func (e *Engine) lockAndReviewLocked(sound string) {
	e.cancelPhaseLocked()
	e.state = StateLockedReviewing
	e.reviewLeft = int(e.cfg.ReviewDuration / time.Second)
	e.advanced = false

	correctIndex := 0
	if e.index < len(e.questions) {
		correctIndex = e.questions[e.index].CorrectIndex
	}
	e.emitLocked(Event{
		Type:            EventRoundLocked,
		QuestionIndex:   e.index,
		CorrectIndex:    correctIndex,
		ReviewRemaining: e.reviewLeft,
		Sound:           sound,
	})

	go e.runReview(e.gen, e.stop)
}

func (e *Engine) runReview(gen int, stop chan struct{}) {
	ticker := e.clock.NewTicker(time.Second)
	fallback := e.clock.NewTimer(e.cfg.ReviewDuration + e.cfg.AdvanceFallback)
	defer ticker.Stop()
	defer stopAndDrainTimer(fallback)
	for {
		select {
		case <-ticker.Chan():
			if !e.reviewTick(gen) {
				return
			}
		case <-fallback.Chan():
			e.advance(gen)
			return
		case <-stop:
			return
		}
	}
}

func (e *Engine) reviewTick(gen int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen || e.state != StateLockedReviewing {
		return false
	}
	e.reviewLeft--
	if e.reviewLeft > 0 {
		e.emitLocked(Event{Type: EventReviewTick, QuestionIndex: e.index, ReviewRemaining: e.reviewLeft})
		return true
	}
	e.advanceLocked()
	return false
}

func (e *Engine) advance(gen int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen || e.state != StateLockedReviewing {
		return
	}
	e.advanceLocked()
}

func (e *Engine) advanceLocked() {
	if e.advanced {
		return
	}
	e.advanced = true
	next := e.index + 1
	e.emitLocked(Event{Type: EventAdvanced, QuestionIndex: next})
	e.openQuestionLocked(next)
}

// cancelPhaseLocked invalidates every timer scheduled for the current phase.
func (e *Engine) cancelPhaseLocked() {
	e.gen++
	close(e.stop)
	e.stop = make(chan struct{})
}

func (e *Engine) emitLocked(ev Event) {
	if e.closed {
		return
	}
	select {
	case e.events <- ev:
	default:
	}
}

// stopAndDrainTimer stops a timer and drains its channel so a fired-but-unread
// tick cannot leak into a later phase.
func stopAndDrainTimer(t clockwork.Timer) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
}
