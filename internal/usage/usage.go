// Package usage keeps daily counters of generation requests and tokens spent.
// Counters are informational; nothing is refused based on them.
package usage

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/exam-gen/internal/platform/cache"
)

const (
	dayLayout = "2006-01-02"
	keyTTL    = 35 * 24 * time.Hour

	fieldRequests     = "requests"
	fieldInputTokens  = "input_tokens"
	fieldOutputTokens = "output_tokens"
)

// Totals are the counters for one UTC day.
type Totals struct {
	Day          string `json:"day"`
	Requests     int64  `json:"requests"`
	InputTokens  int64  `json:"inputTokens"`
	OutputTokens int64  `json:"outputTokens"`
}

// Recorder records and reports daily usage.
type Recorder interface {
	// Record adds one request and its token counts to the day containing at.
	Record(ctx context.Context, at time.Time, inputTokens, outputTokens int) error
	// Usage returns the totals for the day containing at.
	Usage(ctx context.Context, at time.Time) (Totals, error)
}

// Day returns the UTC day bucket for t.
func Day(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

func checkTokens(in, out int) error {
	if in < 0 || out < 0 {
		return fmt.Errorf("tokens must be non-negative, got input=%d output=%d", in, out)
	}
	return nil
}

// MemoryRecorder is an in-process Recorder for development and tests.
type MemoryRecorder struct {
	mu   sync.RWMutex
	days map[string]Totals
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{days: make(map[string]Totals)}
}

func (r *MemoryRecorder) Record(_ context.Context, at time.Time, in, out int) error {
	if err := checkTokens(in, out); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	day := Day(at)
	t := r.days[day]
	t.Day = day
	t.Requests++
	t.InputTokens += int64(in)
	t.OutputTokens += int64(out)
	r.days[day] = t
	return nil
}

func (r *MemoryRecorder) Usage(_ context.Context, at time.Time) (Totals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := Day(at)
	t, ok := r.days[day]
	if !ok {
		return Totals{Day: day}, nil
	}
	return t, nil
}

// RedisRecorder keeps one hash per day in Redis/Dragonfly.
type RedisRecorder struct {
	client *redis.Client
}

// NewRedisRecorder creates a recorder on an existing client.
func NewRedisRecorder(client *redis.Client) *RedisRecorder {
	return &RedisRecorder{client: client}
}

func dayKey(day string) string {
	return cache.Key("usage", day)
}

func (r *RedisRecorder) Record(ctx context.Context, at time.Time, in, out int) error {
	if err := checkTokens(in, out); err != nil {
		return err
	}

	key := dayKey(Day(at))
	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, key, fieldRequests, 1)
	pipe.HIncrBy(ctx, key, fieldInputTokens, int64(in))
	pipe.HIncrBy(ctx, key, fieldOutputTokens, int64(out))
	pipe.Expire(ctx, key, keyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

func (r *RedisRecorder) Usage(ctx context.Context, at time.Time) (Totals, error) {
	day := Day(at)
	fields, err := r.client.HGetAll(ctx, dayKey(day)).Result()
	if err != nil {
		return Totals{}, fmt.Errorf("read usage: %w", err)
	}

	t := Totals{Day: day}
	for name, dst := range map[string]*int64{
		fieldRequests:     &t.Requests,
		fieldInputTokens:  &t.InputTokens,
		fieldOutputTokens: &t.OutputTokens,
	} {
		v, ok := fields[name]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Totals{}, fmt.Errorf("parse usage field %s: %w", name, err)
		}
		*dst = n
	}
	return t, nil
}
