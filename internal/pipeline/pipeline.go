// Package pipeline orchestrates a full dedupe batch: ingest the source
// exports, group by exact keys, fold fuzzy name matches, rank, and write
// the survivors to the flat file and the structured store.
package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/manasnilorout-blv/decode-contacts/internal/adapter"
	"github.com/manasnilorout-blv/decode-contacts/internal/config"
	"github.com/manasnilorout-blv/decode-contacts/internal/ingest"
	"github.com/manasnilorout-blv/decode-contacts/internal/merge"
	"github.com/manasnilorout-blv/decode-contacts/internal/model"
	"github.com/manasnilorout-blv/decode-contacts/internal/store"
)

// Input pairs a source adapter with the file it should read.
type Input struct {
	Adapter adapter.Adapter
	Path    string
}

// Result summarizes one completed batch run.
type Result struct {
	RunID      string
	RawCount   int
	Candidates int
	Absorbed   int
	Final      int
	Stored     int64
	OutputPath string
	Elapsed    time.Duration
}

// Pipeline runs the dedupe batch end to end.
type Pipeline struct {
	cfg    *config.Config
	store  store.Store
	merger *merge.Merger
	inputs []Input
}

// New creates a Pipeline. A nil matcher selects word-overlap similarity at
// the configured threshold.
func New(cfg *config.Config, st store.Store, matcher merge.Matcher, inputs []Input) *Pipeline {
	if matcher == nil {
		threshold := cfg.Merge.Threshold
		if threshold <= 0 {
			threshold = merge.DefaultThreshold
		}
		matcher = &merge.WordOverlapMatcher{Threshold: threshold}
	}
	return &Pipeline{
		cfg:    cfg,
		store:  st,
		merger: merge.NewMerger(matcher),
		inputs: inputs,
	}
}

// Run executes the batch. The run is recorded in the store; any failure
// after the run record is created marks it failed with the cause.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	log := zap.L().With(zap.String("component", "pipeline"))

	run, err := p.store.CreateRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	res, err := p.process(ctx, run, log)
	if err != nil {
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		if cerr := p.store.CompleteRun(ctx, run); cerr != nil {
			log.Error("record failed run", zap.String("run_id", run.ID), zap.Error(cerr))
		}
		return nil, err
	}

	run.Status = model.RunStatusComplete
	if err := p.store.CompleteRun(ctx, run); err != nil {
		return nil, eris.Wrap(err, "pipeline: complete run")
	}

	res.RunID = run.ID
	res.Elapsed = time.Since(start)
	log.Info("batch complete",
		zap.String("run_id", run.ID),
		zap.Int("raw", res.RawCount),
		zap.Int("candidates", res.Candidates),
		zap.Int("absorbed", res.Absorbed),
		zap.Int("final", res.Final),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (p *Pipeline) process(ctx context.Context, run *model.Run, log *zap.Logger) (*Result, error) {
	contacts, err := p.ingest(ctx, log)
	if err != nil {
		return nil, err
	}
	run.RawCount = len(contacts)

	col := ingest.NewCollection(contacts)
	log.Info("ingest complete",
		zap.Int("mentions", col.Len()),
		zap.Int("distinct_emails", col.Emails()),
		zap.Int("distinct_phones", col.Phones()),
	)

	candidates, exactStats := merge.AggregateExact(col)
	run.Candidates = len(candidates)
	log.Info("exact grouping complete",
		zap.Int("by_email", exactStats.ByEmail),
		zap.Int("by_phone", exactStats.ByPhone),
		zap.Int("network_singles", exactStats.NetworkSingles),
		zap.Int("phonebook_singles", exactStats.PhoneBookSingles),
		zap.Int("dropped", exactStats.Dropped),
	)

	survivors, mergeStats, err := p.merger.Merge(candidates)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fuzzy merge")
	}
	run.Merged = mergeStats.Absorbed
	run.Final = len(survivors)
	log.Info("fuzzy merge complete",
		zap.Int("absorbed", mergeStats.Absorbed),
		zap.Int("survivors", mergeStats.Emitted),
	)

	merge.Rank(survivors)

	if err := ExportCSV(survivors, p.cfg.Output.Path); err != nil {
		return nil, err
	}

	stored, err := p.store.ReplaceContacts(ctx, survivors)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: store contacts")
	}

	return &Result{
		RawCount:   len(contacts),
		Candidates: len(candidates),
		Absorbed:   mergeStats.Absorbed,
		Final:      len(survivors),
		Stored:     stored,
		OutputPath: p.cfg.Output.Path,
	}, nil
}

// ingest parses all configured inputs concurrently. A missing file is
// skipped with a warning; any other parse failure aborts the batch.
// Mentions keep input order regardless of which parse finishes first.
func (p *Pipeline) ingest(ctx context.Context, log *zap.Logger) ([]model.RawContact, error) {
	parsed := make([][]model.RawContact, len(p.inputs))

	g, gctx := errgroup.WithContext(ctx)
	for i, in := range p.inputs {
		g.Go(func() error {
			if in.Path == "" {
				return nil
			}
			if _, err := os.Stat(in.Path); os.IsNotExist(err) {
				log.Warn("input file missing, skipping",
					zap.String("source", in.Adapter.Name()),
					zap.String("path", in.Path),
				)
				return nil
			}
			contacts, err := in.Adapter.Parse(gctx, in.Path)
			if err != nil {
				return eris.Wrapf(err, "pipeline: parse %s input", in.Adapter.Name())
			}
			log.Info("input parsed",
				zap.String("source", in.Adapter.Name()),
				zap.String("path", in.Path),
				zap.Int("mentions", len(contacts)),
			)
			parsed[i] = contacts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.RawContact
	for _, batch := range parsed {
		all = append(all, batch...)
	}
	return all, nil
}

// DefaultInputs builds the standard three-source input set from config.
func DefaultInputs(cfg *config.Config) []Input {
	return []Input{
		{Adapter: &adapter.Mail{}, Path: cfg.Inputs.Mail},
		{Adapter: &adapter.Network{}, Path: cfg.Inputs.Network},
		{Adapter: &adapter.PhoneBook{}, Path: cfg.Inputs.PhoneBook},
	}
}
