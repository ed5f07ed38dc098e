// Package export renders generated exams as downloadable documents.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/exam-gen/internal/exam"
)

const (
	sheetName = "Exam"
	// ContentTypeXLSX is the media type of the workbook written by WriteXLSX.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	headerRow    = 5
	firstDataRow = headerRow + 1
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Filename returns a download name such as "exam-fractions-20250901.xlsx".
func Filename(e exam.ExamResponse) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(e.Topic), "-"), "-")
	if slug == "" {
		slug = "untitled"
	}
	if e.GeneratedAt.IsZero() {
		return fmt.Sprintf("exam-%s.xlsx", slug)
	}
	return fmt.Sprintf("exam-%s-%s.xlsx", slug, e.GeneratedAt.UTC().Format("20060102"))
}

// WriteXLSX writes e as a single-sheet workbook: a title block followed by
// one row per question.
func WriteXLSX(w io.Writer, e exam.ExamResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("create title style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("create question style: %w", err)
	}

	generated := ""
	if !e.GeneratedAt.IsZero() {
		generated = e.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")
	}

	cells := []struct {
		cell  string
		value any
	}{
		{"A1", e.Topic},
		{"A2", "Questions requested"},
		{"B2", e.QuestionCount},
		{"A3", "Generated at"},
		{"B3", generated},
		{fmt.Sprintf("A%d", headerRow), "No."},
		{fmt.Sprintf("B%d", headerRow), "Question"},
	}
	for _, c := range cells {
		if err := f.SetCellValue(sheetName, c.cell, c.value); err != nil {
			return fmt.Errorf("set %s: %w", c.cell, err)
		}
	}

	for i, q := range e.Questions {
		row := firstDataRow + i
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), q.ID); err != nil {
			return fmt.Errorf("set question id: %w", err)
		}
		if err := f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), q.Question); err != nil {
			return fmt.Errorf("set question text: %w", err)
		}
	}

	if err := f.SetCellStyle(sheetName, "A1", "A1", title); err != nil {
		return fmt.Errorf("style title: %w", err)
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("B%d", headerRow), bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if len(e.Questions) > 0 {
		last := firstDataRow + len(e.Questions) - 1
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("B%d", firstDataRow), fmt.Sprintf("B%d", last), wrap); err != nil {
			return fmt.Errorf("style questions: %w", err)
		}
	}
	if err := f.SetColWidth(sheetName, "A", "A", 20); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 100); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
