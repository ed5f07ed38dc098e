package exam

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	req := ExamRequest{Topic: "Human Biology", QuestionCount: 12, GradeLevel: 8, Difficulty: DifficultyHard}

	got := BuildPrompt(req)

	for _, want := range []string{
		"12 questions",
		"grade/class 8",
		"Human Biology",
		"hard",
		"numbered (1., 2., etc.)",
		"Short Answer",
		"Long Answer",
		"Avoid diagrammatic questions",
		"Do NOT include the answers",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(got, "%!") {
		t.Errorf("prompt has a formatting error:\n%s", got)
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := ExamRequest{Topic: "Division", QuestionCount: 4, GradeLevel: 3, Difficulty: DifficultyEasy}
	if BuildPrompt(req) != BuildPrompt(req) {
		t.Error("BuildPrompt() is not deterministic")
	}
}
