package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/exam-gen/internal/exam"
)

func sampleExam() exam.ExamResponse {
	return exam.ExamResponse{
		Topic:         "Chemical Reactions",
		QuestionCount: 2,
		Questions: []exam.GeneratedQuestion{
			{ID: 1, Question: "Define a catalyst. (short answer)"},
			{ID: 2, Question: "Explain exothermic reactions with examples. (long answer)"},
		},
		GeneratedAt: exam.Timestamp{Time: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleExam()); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	tests := []struct {
		cell string
		want string
	}{
		{"A1", "Chemical Reactions"},
		{"B2", "2"},
		{"B3", "2025-09-01 08:00 UTC"},
		{"B5", "Question"},
		{"A6", "1"},
		{"B6", "Define a catalyst. (short answer)"},
		{"A7", "2"},
		{"B7", "Explain exothermic reactions with examples. (long answer)"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(sheetName, tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestWriteXLSX_NoQuestions(t *testing.T) {
	e := sampleExam()
	e.Questions = []exam.GeneratedQuestion{}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, e); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("WriteXLSX() wrote nothing")
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		e    exam.ExamResponse
		want string
	}{
		{"with date", sampleExam(), "exam-chemical-reactions-20250901.xlsx"},
		{"no date", exam.ExamResponse{Topic: "Word Problems!"}, "exam-word-problems.xlsx"},
		{"no slug", exam.ExamResponse{Topic: "???"}, "exam-untitled.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.e); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}
