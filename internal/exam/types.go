// Package exam turns exam parameters into a generated question paper.
package exam

import (
	"encoding/json"
	"strings"
	"time"
)

// Difficulty is the requested difficulty of an exam.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

const (
	MinQuestionCount = 1
	MaxQuestionCount = 30
	MinGradeLevel    = 1
	MaxGradeLevel    = 12
)

// RawRequest is the inbound body before validation. Fields stay raw so that
// type mistakes (a number where a string belongs) surface as validation errors.
type RawRequest struct {
	Topic         json.RawMessage `json:"topic"`
	QuestionCount json.RawMessage `json:"questionCount"`
	GradeLevel    json.RawMessage `json:"gradeLevel"`
	Difficulty    json.RawMessage `json:"difficulty"`
}

// ExamRequest is a validated set of exam parameters.
type ExamRequest struct {
	Topic         string
	QuestionCount int
	GradeLevel    int
	Difficulty    Difficulty
}

// GeneratedQuestion is one question recovered from generated text.
type GeneratedQuestion struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
}

// ExamResponse is the generated exam returned to the client.
type ExamResponse struct {
	Topic         string              `json:"topic"`
	QuestionCount int                 `json:"questionCount"`
	Questions     []GeneratedQuestion `json:"questions"`
	GeneratedAt   Timestamp           `json:"generatedAt"`
}

// Timestamp marshals as an ISO 8601 UTC string with millisecond precision.
type Timestamp struct {
	time.Time
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(timestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
