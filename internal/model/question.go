package model

import "fmt"

const (
	// MinOptions and MaxOptions bound how many choices a question may carry.
	MinOptions = 2
	MaxOptions = 5
)

// Question is one entry of the static quiz sequence. The set is immutable and
// loaded once at startup; the presenter only moves an index across it.
type Question struct {
	Text         string   `json:"question" bson:"question" yaml:"question"`
	Options      []string `json:"options" bson:"options" yaml:"options"`
	CorrectIndex int      `json:"correctAnswer" bson:"correctAnswer" yaml:"correctAnswer"`
}

// Validate checks the structural invariants of a single question.
func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return fmt.Errorf("question %q has %d options, want %d-%d", q.Text, len(q.Options), MinOptions, MaxOptions)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("question %q: correct index %d out of range", q.Text, q.CorrectIndex)
	}
	return nil
}

// ValidateQuestions validates the whole ordered set.
func ValidateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return fmt.Errorf("question set is empty")
	}
	for i, q := range qs {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
