package exam

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	reasonRequired   = "Both topic and questionCount are required"
	reasonTopicType  = "Topic must be a string"
	reasonCountNaN   = "Question count must be a number"
	reasonDifficulty = "Difficulty must be easy, medium, or hard"
)

var (
	reasonCountRange = fmt.Sprintf("Question count must be between %d and %d", MinQuestionCount, MaxQuestionCount)
	reasonGradeRange = fmt.Sprintf("Grade level must be between %d and %d", MinGradeLevel, MaxGradeLevel)
)

// ValidationError is a client mistake in the request parameters.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// Validate checks raw request fields and returns a normalized ExamRequest.
func Validate(raw RawRequest) (ExamRequest, error) {
	topic, err := validateTopic(raw.Topic)
	if err != nil {
		return ExamRequest{}, err
	}

	if isMissing(raw.QuestionCount) {
		return ExamRequest{}, invalid(reasonRequired)
	}
	count, ok, whole := parseInt(raw.QuestionCount)
	if !ok {
		return ExamRequest{}, invalid(reasonCountNaN)
	}
	if !whole || count < MinQuestionCount || count > MaxQuestionCount {
		return ExamRequest{}, invalid(reasonCountRange)
	}

	grade, ok, whole := parseInt(raw.GradeLevel)
	if isMissing(raw.GradeLevel) || !ok || !whole || grade < MinGradeLevel || grade > MaxGradeLevel {
		return ExamRequest{}, invalid(reasonGradeRange)
	}

	difficulty, err := validateDifficulty(raw.Difficulty)
	if err != nil {
		return ExamRequest{}, err
	}

	return ExamRequest{
		Topic:         topic,
		QuestionCount: count,
		GradeLevel:    grade,
		Difficulty:    difficulty,
	}, nil
}

func validateTopic(raw json.RawMessage) (string, error) {
	if isMissing(raw) {
		return "", invalid(reasonRequired)
	}
	var topic string
	if err := json.Unmarshal(raw, &topic); err != nil {
		return "", invalid(reasonTopicType)
	}
	topic = norm.NFC.String(strings.TrimSpace(topic))
	if topic == "" {
		return "", invalid(reasonRequired)
	}
	return topic, nil
}

func validateDifficulty(raw json.RawMessage) (Difficulty, error) {
	if isMissing(raw) {
		return "", invalid(reasonDifficulty)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", invalid(reasonDifficulty)
	}
	// Casers keep state, so one per call.
	d := Difficulty(cases.Lower(language.Und).String(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", invalid(reasonDifficulty)
	}
	return d, nil
}

func isMissing(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseInt accepts a JSON number or a numeric string. ok is false when the
// value is not numeric at all; whole is false when it has a fractional part.
func parseInt(raw json.RawMessage) (n int, ok, whole bool) {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, false, false
	}
	f, err := num.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, false
	}
	if f != math.Trunc(f) {
		return 0, true, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, true, false
	}
	return int(f), true, true
}
