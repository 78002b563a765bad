package config

import (
	"encoding/json"
	"fmt"
	"os"

	"quizlive/internal/model"
)

// LoadQuestions reads the static ordered question list from a JSON file and
// validates it. The set is loaded once at startup and never mutated.
func LoadQuestions(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}
	if err := model.ValidateQuestions(questions); err != nil {
		return nil, fmt.Errorf("invalid questions file %s: %w", path, err)
	}
	return questions, nil
}
