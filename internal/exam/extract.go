package exam

import (
	"regexp"
	"strings"
)

// Extractor recovers an ordered question list from free-form generated text.
type Extractor interface {
	Extract(text string) []GeneratedQuestion
}

// ExtractorFunc adapts a plain function to Extractor.
type ExtractorFunc func(text string) []GeneratedQuestion

func (f ExtractorFunc) Extract(text string) []GeneratedQuestion {
	return f(text)
}

var numberedLine = regexp.MustCompile(`^\d+\.\s*(.+)`)

// NumberedLineExtractor keeps lines shaped like "N. question". The printed
// numeral is ignored; ids follow encounter order starting at 1.
type NumberedLineExtractor struct{}

func (NumberedLineExtractor) Extract(text string) []GeneratedQuestion {
	questions := []GeneratedQuestion{}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		q := strings.TrimSpace(m[1])
		if q == "" {
			continue
		}
		questions = append(questions, GeneratedQuestion{
			ID:       len(questions) + 1,
			Question: q,
		})
	}
	return questions
}
