package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/insightdelivered/dirham-statement-importer/internal/extractor"
	"github.com/insightdelivered/dirham-statement-importer/internal/logger"
	"github.com/insightdelivered/dirham-statement-importer/internal/merge"
	"github.com/insightdelivered/dirham-statement-importer/internal/models"
	"github.com/insightdelivered/dirham-statement-importer/internal/parser"
	"github.com/insightdelivered/dirham-statement-importer/internal/store"
)

// Stage is one step of the statement pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *State) error
}

// State is handed from stage to stage. Each stage reads what earlier
// stages produced and fills in its own part.
type State struct {
	Data    []byte
	Forced  models.BankVariant
	Pages   [][]models.Fragment
	Lines   []string
	Variant models.BankVariant
	Period  models.StatementPeriod

	Statement *models.Statement
	Merged    []models.TransactionRecord
	Added     int
}

// Pipeline runs stages in order and stops at the first failure.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline from the given stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Execute runs every stage. A context that expires between stages fails
// the run with ErrDecodeTimeout.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stage %s: %w: %v", s.Name(), extractor.ErrDecodeTimeout, err)
		}

		start := time.Now()
		log.Debug().Str("stage", s.Name()).Msg("stage entered")
		if err := s.Run(ctx, state); err != nil {
			log.Debug().Str("stage", s.Name()).Err(err).Msg("stage failed")
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}
		log.Debug().Str("stage", s.Name()).Dur("elapsed", time.Since(start)).Msg("stage exited")
	}
	return nil
}

type decodeStage struct {
	decoder     extractor.Decoder
	openTimeout time.Duration
	pageTimeout time.Duration
}

func (s *decodeStage) Name() string { return "decode" }

func (s *decodeStage) Run(ctx context.Context, state *State) error {
	octx, cancel := context.WithTimeout(ctx, s.openTimeout)
	doc, err := s.decoder.Open(octx, state.Data)
	cancel()
	if err != nil {
		return err
	}

	pages, err := extractor.ReadPages(ctx, doc, extractor.MaxPages, s.pageTimeout)
	if err != nil {
		return err
	}
	state.Pages = pages
	return nil
}

type reconstructStage struct{}

func (reconstructStage) Name() string { return "reconstruct" }

func (reconstructStage) Run(ctx context.Context, state *State) error {
	state.Lines = extractor.ReconstructLines(state.Pages)
	logger.FromContext(ctx).Debug().Int("lines", len(state.Lines)).Msg("lines reconstructed")
	return nil
}

type detectStage struct{}

func (detectStage) Name() string { return "detect" }

func (detectStage) Run(ctx context.Context, state *State) error {
	if state.Forced != models.VariantUnknown {
		state.Variant = state.Forced
		logger.FromContext(ctx).Debug().Str("variant", string(state.Variant)).Msg("variant forced by caller")
		return nil
	}
	d := parser.Detect(state.Lines)
	state.Variant = d.Variant
	logger.FromContext(ctx).Debug().Str("variant", string(d.Variant)).Str("reason", d.Reason).Msg("variant detected")
	return nil
}

type periodStage struct{}

func (periodStage) Name() string { return "period" }

func (periodStage) Run(ctx context.Context, state *State) error {
	p, err := parser.ResolvePeriod(state.Lines)
	if err != nil {
		return err
	}
	state.Period = p
	logger.FromContext(ctx).Debug().Str("period", p.String()).Str("anchor", p.Anchor.String()).Int("line", p.LineNum).Msg("period resolved")
	return nil
}

type extractStage struct{}

func (extractStage) Name() string { return "extract" }

func (extractStage) Run(ctx context.Context, state *State) error {
	ex, err := parser.New(state.Variant)
	if err != nil {
		return err
	}
	st, err := parser.Extract(ctx, ex, state.Lines, state.Period)
	if err != nil {
		return err
	}
	state.Statement = st
	return nil
}

type mergeStage struct {
	store store.Store
}

func (s *mergeStage) Name() string { return "merge" }

func (s *mergeStage) Run(ctx context.Context, state *State) error {
	existing, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing stored records: %w", err)
	}
	if n := merge.Duplicates(existing); n > 0 {
		logger.FromContext(ctx).Warn().Int("duplicates", n).Msg("stored records contain duplicates")
	}

	merged, added := merge.Merge(existing, state.Statement.Records)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", extractor.ErrDecodeTimeout, err)
	}
	if err := s.store.Replace(ctx, merged); err != nil {
		return fmt.Errorf("replacing stored records: %w", err)
	}
	state.Merged = merged
	state.Added = added
	return nil
}
