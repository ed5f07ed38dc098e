package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/p-n-ai/exam-gen/internal/exam"
	"github.com/p-n-ai/exam-gen/internal/export"
)

const (
	msgInvalidJSON    = "Invalid JSON body"
	msgConfiguration  = "API key not configured. Please add GEMINI_API_KEY to the environment"
	msgUpstreamBadReq = "Invalid request to AI service. Please check your inputs."
	msgUpstreamAuth   = "API key invalid or quota exceeded. Please check your Gemini API key."
	msgUpstreamFailed = "Failed to generate exam. Please try again later."
	msgGradeRange     = "Grade level must be between 1 and 12"
	msgExportFailed   = "Failed to export exam. Please try again later."
	msgUsageFailed    = "Failed to read usage. Please try again later."
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Server is running!"})
}

func (h *handler) ready(w http.ResponseWriter, r *http.Request) {
	type result struct {
		name string
		err  error
	}

	results := make([]result, len(h.checks))
	var wg sync.WaitGroup
	for i, c := range h.checks {
		wg.Add(1)
		go func(i int, c HealthChecker) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(r.Context(), h.checkTimeout)
			defer cancel()
			results[i] = result{name: c.Name(), err: c.HealthCheck(ctx)}
		}(i, c)
	}
	wg.Wait()

	checks := make(map[string]string, len(results))
	status, code := "ready", http.StatusOK
	for _, res := range results {
		if res.err != nil {
			slog.Warn("readiness check failed", "check", res.name, "error", res.err)
			checks[res.name] = "unavailable"
			status, code = "unavailable", http.StatusServiceUnavailable
			continue
		}
		checks[res.name] = "ok"
	}

	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}

func (h *handler) generateExam(w http.ResponseWriter, r *http.Request) {
	var raw exam.RawRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	resp, err := h.gen.Generate(r.Context(), raw)
	if err != nil {
		status, msg := errorResponse(err)
		if status >= http.StatusInternalServerError {
			slog.Error("exam generation failed",
				"request_id", middleware.GetReqID(r.Context()),
				"error", err,
			)
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// errorResponse maps a generation error onto a status and a client-safe message.
func errorResponse(err error) (int, string) {
	var verr *exam.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Reason
	case errors.Is(err, exam.ErrConfiguration):
		return http.StatusInternalServerError, msgConfiguration
	case errors.Is(err, exam.ErrUpstreamBadRequest):
		return http.StatusBadRequest, msgUpstreamBadReq
	case errors.Is(err, exam.ErrUpstreamAuthOrQuota):
		return http.StatusInternalServerError, msgUpstreamAuth
	}
	return http.StatusInternalServerError, msgUpstreamFailed
}

func (h *handler) exportExam(w http.ResponseWriter, r *http.Request) {
	var e exam.ExamResponse
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if e.Topic == "" {
		writeError(w, http.StatusBadRequest, "Exam topic is required")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, e); err != nil {
		slog.Error("exam export failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgExportFailed)
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(e)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *handler) listTopics(w http.ResponseWriter, r *http.Request) {
	grade := 0
	if v := r.URL.Query().Get("grade"); v != "" {
		g, err := strconv.Atoi(v)
		if err != nil || g < exam.MinGradeLevel || g > exam.MaxGradeLevel {
			writeError(w, http.StatusBadRequest, msgGradeRange)
			return
		}
		grade = g
	}

	writeJSON(w, http.StatusOK, map[string]any{"topics": h.topics.ForGrade(grade)})
}

func (h *handler) usage(w http.ResponseWriter, r *http.Request) {
	totals, err := h.gen.Usage(r.Context())
	if err != nil {
		slog.Error("usage lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgUsageFailed)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
