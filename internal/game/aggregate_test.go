package game

import (
	"testing"

	"quizlive/internal/model"
)

func testQuestions() []model.Question {
	return []model.Question{
		{Text: "q0", Options: []string{"a", "b", "c"}, CorrectIndex: 0},
		{Text: "q1", Options: []string{"a", "b", "c"}, CorrectIndex: 1},
		{Text: "q2", Options: []string{"a", "b", "c"}, CorrectIndex: 2},
	}
}

func TestStandingsFoldAndOrder(t *testing.T) {
	agg := NewAggregator(testQuestions())

	events := []model.AnswerEvent{
		{ParticipantID: "p1", Name: "Alice", QuestionIndex: 0, OptionIndex: 0, SecondsRemaining: 20, TimerDuration: 20, Timestamp: 100},
		{ParticipantID: "p1", Name: "Alice", QuestionIndex: 1, OptionIndex: 1, SecondsRemaining: 10, TimerDuration: 20, Timestamp: 200},
		{ParticipantID: "p2", Name: "Bob", QuestionIndex: 0, OptionIndex: 0, SecondsRemaining: 10, TimerDuration: 20, Timestamp: 150},
		{ParticipantID: "p2", Name: "Bob", QuestionIndex: 1, OptionIndex: 2, SecondsRemaining: 5, TimerDuration: 20, Timestamp: 250},
	}

	standings := agg.Standings(events, 1)
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(standings))
	}

	// Alice: 2 + 1.5 = 3.5 points, both correct.
	if standings[0].ParticipantID != "p1" || standings[0].Points != 3.5 {
		t.Fatalf("expected Alice leading with 3.5, got %+v", standings[0])
	}
	if standings[0].Correct != 2 || standings[0].Answered != 2 {
		t.Fatalf("expected Alice 2/2 correct, got %+v", standings[0])
	}
	if standings[0].Percentage != 100 {
		t.Fatalf("expected Alice at 100%%, got %v", standings[0].Percentage)
	}

	// Bob: 1.5 points, 1 of 2 correct.
	if standings[1].ParticipantID != "p2" || standings[1].Points != 1.5 {
		t.Fatalf("expected Bob with 1.5, got %+v", standings[1])
	}
	if standings[1].Percentage != 50 {
		t.Fatalf("expected Bob at 50%%, got %v", standings[1].Percentage)
	}
	if standings[1].LastAnswerAt != 250 {
		t.Fatalf("expected Bob last answer at 250, got %d", standings[1].LastAnswerAt)
	}
}

func TestStandingsIgnoresUnreleasedQuestions(t *testing.T) {
	agg := NewAggregator(testQuestions())

	events := []model.AnswerEvent{
		{ParticipantID: "p1", QuestionIndex: 0, OptionIndex: 0, SecondsRemaining: 20, TimerDuration: 20},
		{ParticipantID: "p1", QuestionIndex: 2, OptionIndex: 2, SecondsRemaining: 20, TimerDuration: 20},
	}

	standings := agg.Standings(events, 0)
	if len(standings) != 1 {
		t.Fatalf("expected 1 standing, got %d", len(standings))
	}
	if standings[0].Answered != 1 || standings[0].Points != 2 {
		t.Fatalf("answer to unreleased question leaked into totals: %+v", standings[0])
	}
}

func TestStandingsDefaultsForMissingFields(t *testing.T) {
	agg := NewAggregator(testQuestions())

	// Missing duration defaults to 20; negative time left counts as 0.
	events := []model.AnswerEvent{
		{ParticipantID: "p1", QuestionIndex: 0, OptionIndex: 0, SecondsRemaining: 10, TimerDuration: 0},
		{ParticipantID: "p2", QuestionIndex: 0, OptionIndex: 0, SecondsRemaining: -3, TimerDuration: 20},
	}

	standings := agg.Standings(events, 0)
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings, got %d", len(standings))
	}
	if standings[0].ParticipantID != "p1" || standings[0].Points != 1.5 {
		t.Fatalf("expected p1 with 1.5 from defaulted duration, got %+v", standings[0])
	}
	if standings[1].Points != 1 {
		t.Fatalf("expected p2 with 1 from clamped time, got %+v", standings[1])
	}
}

func TestStandingsTieBreaks(t *testing.T) {
	agg := NewAggregator(testQuestions())

	// Same points and correct count; earlier responder ranks first.
	events := []model.AnswerEvent{
		{ParticipantID: "late", QuestionIndex: 0, OptionIndex: 0, SecondsRemaining: 10, TimerDuration: 20, Timestamp: 900},
		{ParticipantID: "early", QuestionIndex: 0, OptionIndex: 0, SecondsRemaining: 10, TimerDuration: 20, Timestamp: 100},
	}

	standings := agg.Standings(events, 0)
	if standings[0].ParticipantID != "early" || standings[1].ParticipantID != "late" {
		t.Fatalf("expected earlier responder first, got %s then %s",
			standings[0].ParticipantID, standings[1].ParticipantID)
	}
}

func TestStandingsPointsRounding(t *testing.T) {
	agg := NewAggregator(testQuestions())

	// 1 + 7/23 = 1.30434..., rounds to 1.3.
	events := []model.AnswerEvent{
		{ParticipantID: "p1", QuestionIndex: 0, OptionIndex: 0, SecondsRemaining: 7, TimerDuration: 23},
	}
	standings := agg.Standings(events, 0)
	if standings[0].Points != 1.3 {
		t.Fatalf("expected rounded 1.3, got %v", standings[0].Points)
	}
}

func TestStandingsEmptyBeforeFirstRelease(t *testing.T) {
	agg := NewAggregator(nil)
	standings := agg.Standings([]model.AnswerEvent{{ParticipantID: "p1"}}, 0)
	if len(standings) != 0 {
		t.Fatalf("expected empty standings with no questions, got %d", len(standings))
	}

	agg = NewAggregator(testQuestions())
	standings = agg.Standings(nil, -1)
	if len(standings) != 0 {
		t.Fatalf("expected empty standings before first release, got %d", len(standings))
	}
}

func TestStandingsCapsAtLastQuestion(t *testing.T) {
	agg := NewAggregator(testQuestions())

	events := []model.AnswerEvent{
		{ParticipantID: "p1", QuestionIndex: 2, OptionIndex: 2, SecondsRemaining: 0, TimerDuration: 20},
	}
	// Presenter index past the end still folds only released questions.
	standings := agg.Standings(events, 10)
	if len(standings) != 1 {
		t.Fatalf("expected 1 standing, got %d", len(standings))
	}
	if standings[0].Percentage != float64(1)/3*100 {
		t.Fatalf("expected percentage over 3 questions, got %v", standings[0].Percentage)
	}
}
