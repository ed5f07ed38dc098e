package exam_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/p-n-ai/exam-gen/internal/ai"
	"github.com/p-n-ai/exam-gen/internal/exam"
	"github.com/p-n-ai/exam-gen/internal/examlog"
	"github.com/p-n-ai/exam-gen/internal/usage"
)

var fixedNow = time.Date(2025, 9, 1, 8, 15, 30, 123000000, time.UTC)

func fractions() exam.RawRequest {
	return raw(`"Fractions"`, `3`, `5`, `"medium"`)
}

func newService(provider ai.Provider, apiKey string) (*exam.Service, *examlog.MemoryLogger, *usage.MemoryRecorder) {
	log := examlog.NewMemoryLogger()
	rec := usage.NewMemoryRecorder()
	svc := exam.NewService(exam.ServiceConfig{
		Provider: provider,
		APIKey:   apiKey,
		Log:      log,
		Usage:    rec,
		Now:      func() time.Time { return fixedNow },
	})
	return svc, log, rec
}

func TestService_Generate(t *testing.T) {
	mock := ai.NewMockProvider("Here is your exam:\n1. What is 1/2 + 1/4?\n2. Simplify 6/8.\n3. Explain equivalent fractions.")
	svc, log, rec := newService(mock, "key")

	got, err := svc.Generate(context.Background(), fractions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if got.Topic != "Fractions" {
		t.Errorf("Topic = %q, want Fractions", got.Topic)
	}
	if got.QuestionCount != 3 {
		t.Errorf("QuestionCount = %d, want 3", got.QuestionCount)
	}
	if len(got.Questions) != 3 {
		t.Fatalf("len(Questions) = %d, want 3", len(got.Questions))
	}
	for i, q := range got.Questions {
		if q.ID != i+1 {
			t.Errorf("Questions[%d].ID = %d, want %d", i, q.ID, i+1)
		}
	}
	if !got.GeneratedAt.Equal(fixedNow) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, fixedNow)
	}

	prompt := mock.LastRequest().Messages[0].Content
	if !strings.Contains(prompt, "Fractions") || !strings.Contains(prompt, "medium") {
		t.Errorf("prompt does not carry request parameters:\n%s", prompt)
	}

	records := log.Records()
	if len(records) != 1 || records[0].ExtractedCount != 3 {
		t.Errorf("exam log records = %+v, want one record with 3 extracted", records)
	}
	totals, _ := rec.Usage(context.Background(), fixedNow)
	if totals.Requests != 1 {
		t.Errorf("usage requests = %d, want 1", totals.Requests)
	}
}

func TestService_Generate_EmptyExtractionIsNotAnError(t *testing.T) {
	svc, _, _ := newService(ai.NewMockProvider("I cannot help with that."), "key")

	got, err := svc.Generate(context.Background(), fractions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Questions == nil || len(got.Questions) != 0 {
		t.Errorf("Questions = %#v, want empty non-nil slice", got.Questions)
	}
}

func TestService_Generate_ValidationBeforeUpstream(t *testing.T) {
	mock := ai.NewMockProvider("1. q")
	svc, _, _ := newService(mock, "key")

	_, err := svc.Generate(context.Background(), raw(`"Fractions"`, `31`, `5`, `"medium"`))

	var verr *exam.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Generate() error = %v, want *ValidationError", err)
	}
	if mock.Calls() != 0 {
		t.Errorf("provider called %d times, want 0", mock.Calls())
	}
}

func TestService_Generate_MissingCredential(t *testing.T) {
	mock := ai.NewMockProvider("1. q")
	svc, _, _ := newService(mock, "")

	_, err := svc.Generate(context.Background(), fractions())
	if !errors.Is(err, exam.ErrConfiguration) {
		t.Fatalf("Generate() error = %v, want ErrConfiguration", err)
	}
	if mock.Calls() != 0 {
		t.Errorf("provider called %d times, want 0", mock.Calls())
	}
}

func TestService_Generate_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"bad request", &ai.APIError{StatusCode: http.StatusBadRequest, Body: "bad"}, exam.ErrUpstreamBadRequest},
		{"forbidden", &ai.APIError{StatusCode: http.StatusForbidden, Body: "denied"}, exam.ErrUpstreamAuthOrQuota},
		{"unauthorized", &ai.APIError{StatusCode: http.StatusUnauthorized}, exam.ErrUpstreamAuthOrQuota},
		{"quota", &ai.APIError{StatusCode: http.StatusTooManyRequests}, exam.ErrUpstreamAuthOrQuota},
		{"server error", &ai.APIError{StatusCode: http.StatusServiceUnavailable}, exam.ErrUpstreamUnknown},
		{"network", errors.New("dial tcp: connection refused"), exam.ErrUpstreamUnknown},
		{"timeout", context.DeadlineExceeded, exam.ErrUpstreamUnknown},
		{"malformed", ai.ErrMalformedResponse, exam.ErrUpstreamUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &ai.MockProvider{Err: tt.err}
			svc, log, _ := newService(mock, "key")

			_, err := svc.Generate(context.Background(), fractions())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Generate() error = %v, want %v", err, tt.wantErr)
			}
			if mock.Calls() != 1 {
				t.Errorf("provider called %d times, want exactly 1", mock.Calls())
			}
			if len(log.Records()) != 0 {
				t.Error("failed generations must not be logged")
			}
		})
	}
}

func TestService_Generate_CustomExtractor(t *testing.T) {
	svc := exam.NewService(exam.ServiceConfig{
		Provider: ai.NewMockProvider("- bullet one\n- bullet two"),
		APIKey:   "key",
		Extractor: exam.ExtractorFunc(func(text string) []exam.GeneratedQuestion {
			var out []exam.GeneratedQuestion
			for _, line := range strings.Split(text, "\n") {
				out = append(out, exam.GeneratedQuestion{ID: len(out) + 1, Question: strings.TrimPrefix(line, "- ")})
			}
			return out
		}),
	})

	got, err := svc.Generate(context.Background(), fractions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got.Questions) != 2 || got.Questions[1].Question != "bullet two" {
		t.Errorf("Questions = %+v", got.Questions)
	}
}

func TestService_Generate_LogFailureDoesNotFailRequest(t *testing.T) {
	svc := exam.NewService(exam.ServiceConfig{
		Provider: ai.NewMockProvider("1. q"),
		APIKey:   "key",
		Log:      examlog.NewPostgresLogger(nil),
	})

	if _, err := svc.Generate(context.Background(), fractions()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

func TestService_Usage(t *testing.T) {
	svc, _, _ := newService(ai.NewMockProvider("1. q"), "key")
	_, _ = svc.Generate(context.Background(), fractions())

	totals, err := svc.Usage(context.Background())
	if err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	if totals.Day != "2025-09-01" || totals.Requests != 1 {
		t.Errorf("Usage() = %+v", totals)
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	b, err := exam.Timestamp{Time: fixedNow}.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(b) != `"2025-09-01T08:15:30.123Z"` {
		t.Errorf("MarshalJSON() = %s", b)
	}

	var ts exam.Timestamp
	if err := ts.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if !ts.Equal(fixedNow) {
		t.Errorf("UnmarshalJSON() = %v, want %v", ts.Time, fixedNow)
	}
}
