// Package examlog records an audit trail of generated exams.
package examlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// Record describes one successful exam generation. Question text is not kept.
type Record struct {
	ID             string
	Topic          string
	GradeLevel     int
	Difficulty     string
	QuestionCount  int // requested
	ExtractedCount int
	Model          string
	InputTokens    int
	OutputTokens   int
	CreatedAt      time.Time
}

// Logger persists generation records.
type Logger interface {
	Log(ctx context.Context, rec Record) error
}

// NopLogger ignores all records.
type NopLogger struct{}

func (NopLogger) Log(context.Context, Record) error {
	return nil
}

// MemoryLogger keeps records in memory for tests.
type MemoryLogger struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{records: []Record{}}
}

func (l *MemoryLogger) Log(_ context.Context, rec Record) error {
	if rec.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	fill(&rec)

	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
	return nil
}

func (l *MemoryLogger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Record{}, l.records...)
}

const schema = `CREATE TABLE IF NOT EXISTS exam_generations (
	id              uuid PRIMARY KEY,
	topic           text        NOT NULL,
	grade_level     integer     NOT NULL,
	difficulty      text        NOT NULL,
	question_count  integer     NOT NULL,
	extracted_count integer     NOT NULL,
	model           text        NOT NULL DEFAULT '',
	input_tokens    integer     NOT NULL DEFAULT 0,
	output_tokens   integer     NOT NULL DEFAULT 0,
	created_at      timestamptz NOT NULL
)`

// PostgresLogger inserts records into the exam_generations table.
type PostgresLogger struct {
	pool *pgxpool.Pool
}

func NewPostgresLogger(pool *pgxpool.Pool) *PostgresLogger {
	return &PostgresLogger{pool: pool}
}

// EnsureSchema creates the exam_generations table when it does not exist.
func (l *PostgresLogger) EnsureSchema(ctx context.Context) error {
	if l == nil || l.pool == nil {
		return fmt.Errorf("exam log pool is nil")
	}
	if _, err := l.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create exam_generations: %w", err)
	}
	return nil
}

func (l *PostgresLogger) Log(ctx context.Context, rec Record) error {
	if l == nil || l.pool == nil {
		return fmt.Errorf("exam log pool is nil")
	}
	if rec.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	fill(&rec)

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := l.pool.Exec(ctx,
		`INSERT INTO exam_generations
		   (id, topic, grade_level, difficulty, question_count, extracted_count,
		    model, input_tokens, output_tokens, created_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID,
		rec.Topic,
		rec.GradeLevel,
		rec.Difficulty,
		rec.QuestionCount,
		rec.ExtractedCount,
		rec.Model,
		rec.InputTokens,
		rec.OutputTokens,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert exam generation: %w", err)
	}

	slog.Debug("exam generation logged",
		"id", rec.ID,
		"topic", rec.Topic,
		"extracted", rec.ExtractedCount,
	)
	return nil
}

func fill(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
}
