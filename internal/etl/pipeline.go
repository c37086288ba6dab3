package etl

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/BartekS5/uncoupledetl/internal/config"
	"github.com/BartekS5/uncoupledetl/pkg/database"
	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
	"github.com/BartekS5/uncoupledetl/pkg/logger"
	"github.com/BartekS5/uncoupledetl/pkg/models"
	"github.com/BartekS5/uncoupledetl/pkg/report"
)

// Options configures one run. Target, DryRun and Reporter cover every
// deployment variant: local or remote database, load or no load, with or
// without external error reporting.
type Options struct {
	Sources  config.Sources
	Target   string
	DryRun   bool
	Logger   *logger.Logger
	Reporter report.Reporter

	// HTTPClient, when set, is used for every extraction.
	HTTPClient *http.Client

	// Load persists the Pokémon rows; defaults to Dispatch.
	Load LoadStrategy[models.PokemonRow]
}

// Result summarizes a finished run.
type Result struct {
	RunID     string
	Character models.Character
	Pokemon   []models.PokemonRow
	Loaded    int
	Duration  time.Duration
}

// Pipeline wires one extractor, transformer and loader per source and is
// the only place that knows the concrete strategies.
type Pipeline struct {
	opts Options
}

func NewPipeline(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Reporter == nil {
		opts.Reporter = report.Nop{}
	}
	if opts.Load == nil {
		opts.Load = Dispatch[models.PokemonRow]
	}
	if opts.Target == "" {
		opts.Target = config.DefaultTarget
	}
	return &Pipeline{opts: opts}
}

// Run executes one extract, transform and load pass. Errors are returned
// unchanged; nothing is retried.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	return p.run(ctx, uuid.NewString())
}

func (p *Pipeline) run(ctx context.Context, runID string) (*Result, error) {
	log := p.opts.Logger.With("run_id", runID)
	res := &Result{RunID: runID}
	start := time.Now()

	chars, poke := p.opts.Sources.Characters, p.opts.Sources.Pokemon
	log.Infof("Starting pipeline. Target: %s, DryRun: %v", p.targetName(), p.opts.DryRun)

	// 1. Extract
	log.Infof("Extracting %s (%d endpoint)", chars.Name, len(chars.Endpoints))
	charData, err := p.extractor(chars).GetData(ctx, FetchSingle)
	if err != nil {
		return nil, pkgerrors.WithMessagef(err, "extract %s", chars.Name)
	}

	log.Infof("Extracting %s (%d endpoints)", poke.Name, len(poke.Endpoints))
	pokeData, err := p.extractor(poke).GetData(ctx, FetchMultiple)
	if err != nil {
		return nil, pkgerrors.WithMessagef(err, "extract %s", poke.Name)
	}

	// 2. Transform
	charRecord, err := First(charData)
	if err != nil {
		return nil, pkgerrors.WithMessagef(err, "extract %s", chars.Name)
	}
	res.Character, err = NewCharacterTransformer(charRecord).Transform()
	if err != nil {
		return nil, pkgerrors.WithMessagef(err, "transform %s", chars.Name)
	}
	log.Debugf("Character %s (%s %s)", res.Character.Name, res.Character.ActiveSpecName, res.Character.Class)

	res.Pokemon, err = NewPokemonTransformer(pokeData).Transform()
	if err != nil {
		return nil, pkgerrors.WithMessagef(err, "transform %s", poke.Name)
	}
	log.Infof("Transformed %d pokemon", len(res.Pokemon))

	// 3. Load (skip if DryRun)
	if p.opts.DryRun {
		log.Infof("[DRY RUN] Would load %d records", len(res.Pokemon))
	} else {
		if err := NewLoader(res.Pokemon).LoadStrategy(ctx, p.opts.Load, p.opts.Target); err != nil {
			return nil, pkgerrors.WithMessagef(err, "load %s", poke.Name)
		}
		res.Loaded = len(res.Pokemon)
	}

	res.Duration = time.Since(start)
	log.Infof("Run completed. Loaded: %d, Duration: %s", res.Loaded, res.Duration.Round(time.Millisecond))
	return res, nil
}

// RunAndReport is the top-level catch of a run. On failure it logs one
// critical line carrying the flattened stack trace, hands the error to the
// reporter and returns the same error.
func (p *Pipeline) RunAndReport(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	res, err := p.run(ctx, runID)
	if err == nil {
		return res, nil
	}

	log := p.opts.Logger.With("run_id", runID)
	log.Critical("pipeline run failed: "+err.Error(),
		"kind", errorKind(err),
		"stack", etlerrors.Flatten(err))

	if rerr := p.opts.Reporter.Report(ctx, err); rerr != nil {
		log.Warnf("error report failed: %v", rerr)
	}
	return nil, err
}

func (p *Pipeline) extractor(src config.Source) *Extractor {
	return NewExtractor(src.URL, src.Endpoints,
		WithParams(src.QueryParams()),
		WithHeaders(src.HeaderValues()),
		WithHTTPClient(p.opts.HTTPClient),
	)
}

func (p *Pipeline) targetName() string {
	t, err := database.ParseTarget(p.opts.Target)
	if err != nil {
		return p.opts.Target
	}
	return t.Redacted()
}

func errorKind(err error) string {
	switch {
	case etlerrors.IsFetch(err):
		return "fetch"
	case etlerrors.IsValidation(err):
		return "validation"
	case etlerrors.IsPersistence(err):
		return "persistence"
	default:
		return "unknown"
	}
}
