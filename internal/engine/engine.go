// Package engine turns statement documents into transaction records and
// folds them into a store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/insightdelivered/dirham-statement-importer/internal/config"
	"github.com/insightdelivered/dirham-statement-importer/internal/extractor"
	"github.com/insightdelivered/dirham-statement-importer/internal/logger"
	"github.com/insightdelivered/dirham-statement-importer/internal/models"
	"github.com/insightdelivered/dirham-statement-importer/internal/store"
)

// ErrInputTooLarge rejects documents above Limits.MaxInputBytes.
var ErrInputTooLarge = errors.New("input too large")

// Limits bounds the work done for one document.
type Limits struct {
	MaxInputBytes int64
	OpenTimeout   time.Duration
	PageTimeout   time.Duration
	TotalTimeout  time.Duration
}

// DefaultLimits: 10 MiB, 5s to open, 3s per page, 15s overall.
func DefaultLimits() Limits {
	return Limits{
		MaxInputBytes: 10 << 20,
		OpenTimeout:   5 * time.Second,
		PageTimeout:   3 * time.Second,
		TotalTimeout:  15 * time.Second,
	}
}

// LimitsFromConfig converts the [engine] section. The config must be valid.
func LimitsFromConfig(c config.Engine) Limits {
	open, page, total := c.Durations()
	return Limits{
		MaxInputBytes: c.MaxInputBytes,
		OpenTimeout:   open,
		PageTimeout:   page,
		TotalTimeout:  total,
	}
}

// Options tune a single run.
type Options struct {
	// Variant skips detection when set.
	Variant models.BankVariant
}

// ImportResult describes one import.
type ImportResult struct {
	ID        uuid.UUID         `json:"id"`
	Statement *models.Statement `json:"statement"`
	Added     int               `json:"added"`
	Total     int               `json:"total"`
}

// Duplicate reports a successful import that brought nothing new.
func (r *ImportResult) Duplicate() bool {
	return r.Added == 0
}

// Engine processes one document at a time. It does not serialize
// concurrent imports against the same store.
type Engine struct {
	decoder extractor.Decoder
	store   store.Store
	limits  Limits
}

// New creates an engine. A nil decoder uses the PDF decoder.
func New(decoder extractor.Decoder, st store.Store, limits Limits) *Engine {
	if decoder == nil {
		decoder = extractor.NewPDFDecoder()
	}
	return &Engine{decoder: decoder, store: st, limits: limits}
}

// Limits returns the engine's limits.
func (e *Engine) Limits() Limits {
	return e.limits
}

// Store returns the engine's record store.
func (e *Engine) Store() store.Store {
	return e.store
}

// Parse extracts the statement without touching the store.
func (e *Engine) Parse(ctx context.Context, data []byte, opts Options) (*models.Statement, error) {
	state, err := e.run(ctx, data, opts, false)
	if err != nil {
		return nil, err
	}
	return state.Statement, nil
}

// Import extracts the statement and merges its records into the store.
func (e *Engine) Import(ctx context.Context, data []byte, opts Options) (*ImportResult, error) {
	if e.store == nil {
		return nil, errors.New("import requires a store")
	}

	id := uuid.New()
	ctx = logger.WithContext(ctx, logger.FromContext(ctx).With().Str("import_id", id.String()).Logger())

	state, err := e.run(ctx, data, opts, true)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{
		ID:        id,
		Statement: state.Statement,
		Added:     state.Added,
		Total:     len(state.Merged),
	}
	logger.FromContext(ctx).Info().
		Str("variant", string(state.Variant)).
		Str("period", state.Period.String()).
		Int("parsed", len(state.Statement.Records)).
		Int("failed_lines", state.Statement.FailedLines).
		Int("added", res.Added).
		Int("total", res.Total).
		Msg("statement imported")
	return res, nil
}

func (e *Engine) run(ctx context.Context, data []byte, opts Options, persist bool) (*State, error) {
	if int64(len(data)) > e.limits.MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrInputTooLarge, len(data), e.limits.MaxInputBytes)
	}

	ctx, cancel := context.WithTimeout(ctx, e.limits.TotalTimeout)
	defer cancel()

	stages := []Stage{
		&decodeStage{decoder: e.decoder, openTimeout: e.limits.OpenTimeout, pageTimeout: e.limits.PageTimeout},
		reconstructStage{},
		detectStage{},
		periodStage{},
		extractStage{},
	}
	if persist {
		stages = append(stages, &mergeStage{store: e.store})
	}

	state := &State{Data: data, Forced: opts.Variant}
	if err := NewPipeline(stages...).Execute(ctx, state); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, extractor.ErrDecodeTimeout) {
			return nil, fmt.Errorf("%w: %v", extractor.ErrDecodeTimeout, err)
		}
		return nil, err
	}
	return state, nil
}
