package game

import (
	"math"
	"sort"

	"quizlive/internal/model"
)

// Aggregator folds raw answer events into ranked per-participant totals.
// Recomputation is always full: the fold runs over every event up to the
// bounded question index, never incrementally.
type Aggregator struct {
	questions []model.Question
}

// NewAggregator creates an aggregator over the static question set.
func NewAggregator(questions []model.Question) *Aggregator {
	return &Aggregator{questions: questions}
}

// Standings folds all events for questions [0, lastQ] into ranked totals,
// where lastQ = min(currentQuestion, len(questions)-1). Events outside that
// bound are ignored, so answers to not-yet-released questions never leak into
// the board.
func (a *Aggregator) Standings(events []model.AnswerEvent, currentQuestion int) []model.Standing {
	lastQ := currentQuestion
	if max := len(a.questions) - 1; lastQ > max {
		lastQ = max
	}
	if lastQ < 0 {
		return []model.Standing{}
	}

	totals := make(map[string]*model.Standing)
	for _, ev := range events {
		if ev.QuestionIndex < 0 || ev.QuestionIndex > lastQ {
			continue
		}
		t, ok := totals[ev.ParticipantID]
		if !ok {
			t = &model.Standing{
				ParticipantID: ev.ParticipantID,
				Name:          ev.Name,
				Email:         ev.Email,
				Phone:         ev.Phone,
			}
			totals[ev.ParticipantID] = t
		}
		t.Answered++
		if ev.Timestamp > t.LastAnswerAt {
			t.LastAnswerAt = ev.Timestamp
		}
		q := a.questions[ev.QuestionIndex]
		if ev.OptionIndex == q.CorrectIndex {
			t.Correct++
			dur := ev.TimerDuration
			if dur <= 0 {
				dur = DefaultAggregationDuration
			}
			left := ev.SecondsRemaining
			if left < 0 {
				left = 0
			}
			t.Points += 1 + TimeBonus(left, dur)
		}
	}

	released := lastQ + 1
	standings := make([]model.Standing, 0, len(totals))
	for _, t := range totals {
		t.Percentage = float64(t.Correct) / float64(released) * 100
		t.Points = math.Round(t.Points*100) / 100
		standings = append(standings, *t)
	}

	// Points desc, correct desc, percentage desc, then earlier responder
	// first. The participant id comparison makes the order total even for
	// byte-identical records.
	sort.SliceStable(standings, func(i, j int) bool {
		si, sj := standings[i], standings[j]
		if si.Points != sj.Points {
			return si.Points > sj.Points
		}
		if si.Correct != sj.Correct {
			return si.Correct > sj.Correct
		}
		if si.Percentage != sj.Percentage {
			return si.Percentage > sj.Percentage
		}
		if si.LastAnswerAt != sj.LastAnswerAt {
			return si.LastAnswerAt < sj.LastAnswerAt
		}
		return si.ParticipantID < sj.ParticipantID
	})

	return standings
}
