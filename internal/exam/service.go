package exam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/p-n-ai/exam-gen/internal/ai"
	"github.com/p-n-ai/exam-gen/internal/examlog"
	"github.com/p-n-ai/exam-gen/internal/usage"
)

// ServiceConfig holds dependencies for the exam service.
type ServiceConfig struct {
	Provider  ai.Provider
	APIKey    string // credential of the generative service; empty means not configured
	Model     string
	Extractor Extractor        // default NumberedLineExtractor
	Log       examlog.Logger   // default NopLogger
	Usage     usage.Recorder   // optional
	Now       func() time.Time // default time.Now
}

// Service generates exams. It holds no per-request state.
type Service struct {
	provider  ai.Provider
	apiKey    string
	model     string
	extractor Extractor
	log       examlog.Logger
	usage     usage.Recorder
	now       func() time.Time
}

// NewService creates a new exam service.
func NewService(cfg ServiceConfig) *Service {
	extractor := cfg.Extractor
	if extractor == nil {
		extractor = NumberedLineExtractor{}
	}
	log := cfg.Log
	if log == nil {
		log = examlog.NopLogger{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		provider:  cfg.Provider,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		extractor: extractor,
		log:       log,
		usage:     cfg.Usage,
		now:       now,
	}
}

// Configured reports whether the generative service credential is set.
func (s *Service) Configured() bool {
	return s.apiKey != "" && s.provider != nil
}

// Generate validates raw parameters, asks the generative service for an exam
// and extracts its questions. The upstream call is made exactly once.
func (s *Service) Generate(ctx context.Context, raw RawRequest) (ExamResponse, error) {
	req, err := Validate(raw)
	if err != nil {
		return ExamResponse{}, err
	}

	if !s.Configured() {
		return ExamResponse{}, ErrConfiguration
	}

	completion := ai.UserPrompt(BuildPrompt(req))
	completion.Model = s.model

	slog.Info("generating exam",
		"topic", req.Topic,
		"question_count", req.QuestionCount,
		"grade_level", req.GradeLevel,
		"difficulty", req.Difficulty,
	)

	resp, err := s.provider.Complete(ctx, completion)
	if err != nil {
		return ExamResponse{}, classify(err)
	}

	questions := s.extractor.Extract(resp.Content)
	if questions == nil {
		questions = []GeneratedQuestion{}
	}
	generatedAt := s.now()

	slog.Info("exam generated",
		"topic", req.Topic,
		"requested", req.QuestionCount,
		"extracted", len(questions),
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)
	s.record(ctx, req, resp, len(questions), generatedAt)

	return ExamResponse{
		Topic:         req.Topic,
		QuestionCount: req.QuestionCount,
		Questions:     questions,
		GeneratedAt:   Timestamp{generatedAt},
	}, nil
}

// Usage returns today's usage totals, if a recorder is configured.
func (s *Service) Usage(ctx context.Context) (usage.Totals, error) {
	if s.usage == nil {
		return usage.Totals{Day: usage.Day(s.now())}, nil
	}
	return s.usage.Usage(ctx, s.now())
}

// record writes the audit trail. Failures here never fail the request.
func (s *Service) record(ctx context.Context, req ExamRequest, resp ai.CompletionResponse, extracted int, at time.Time) {
	err := s.log.Log(ctx, examlog.Record{
		Topic:          req.Topic,
		GradeLevel:     req.GradeLevel,
		Difficulty:     string(req.Difficulty),
		QuestionCount:  req.QuestionCount,
		ExtractedCount: extracted,
		Model:          resp.Model,
		InputTokens:    resp.InputTokens,
		OutputTokens:   resp.OutputTokens,
		CreatedAt:      at,
	})
	if err != nil {
		slog.Warn("failed to log exam generation", "error", err)
	}

	if s.usage == nil {
		return
	}
	if err := s.usage.Record(ctx, at, resp.InputTokens, resp.OutputTokens); err != nil {
		slog.Warn("failed to record usage", "error", err)
	}
}

// classify maps a provider failure onto the upstream error taxonomy. The
// upstream body only goes to the log.
func classify(err error) error {
	var apiErr *ai.APIError
	if errors.As(err, &apiErr) {
		slog.Error("generative service returned an error",
			"status", apiErr.StatusCode,
			"body", apiErr.Body,
		)
		switch {
		case apiErr.IsBadRequest():
			return fmt.Errorf("%w (status %d)", ErrUpstreamBadRequest, apiErr.StatusCode)
		case apiErr.IsAuthOrQuota():
			return fmt.Errorf("%w (status %d)", ErrUpstreamAuthOrQuota, apiErr.StatusCode)
		}
		return fmt.Errorf("%w (status %d)", ErrUpstreamUnknown, apiErr.StatusCode)
	}

	slog.Error("generative service call failed", "error", err)
	return fmt.Errorf("%w: %v", ErrUpstreamUnknown, err)
}
