package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vetgate/internal/aireview"
	"vetgate/internal/analyzers"
	"vetgate/internal/cache"
	"vetgate/internal/config"
	"vetgate/internal/logging"
	"vetgate/internal/providers"
	"vetgate/internal/report"
)

// Pipeline runs one complete review: analyzers and the AI branch in
// parallel, a barrier, then aggregation. Config is fixed at construction;
// concurrent pipelines with different configs do not interact.
type Pipeline struct {
	cfg      config.Config
	runner   *analyzers.Runner
	reviewer *aireview.Reviewer
	log      *slog.Logger
}

// New validates the config and assembles a Pipeline. A configuration
// problem aborts here, before any analyzer or model call.
func New(cfg config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := providers.New(cfg.AI.Provider, cfg.AI.Model)
	if err != nil {
		return nil, err
	}

	var replyCache *cache.Cache
	if cfg.AI.CacheDir != "" {
		replyCache, err = cache.Open(cfg.AI.CacheDir, 24*time.Hour)
		if err != nil {
			return nil, err
		}
	}

	return &Pipeline{
		cfg:      cfg,
		runner:   analyzers.NewRunner(analyzers.Set(cfg.Tools()), time.Duration(cfg.AnalyzerTimeoutSeconds)*time.Second),
		reviewer: aireview.New(provider, replyCache),
		log:      logging.New("pipeline"),
	}, nil
}

// NewWith assembles a Pipeline from explicit collaborators. Tests and the
// service wrapper use this to inject fakes.
func NewWith(cfg config.Config, runner *analyzers.Runner, reviewer *aireview.Reviewer) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:      cfg,
		runner:   runner,
		reviewer: reviewer,
		log:      logging.New("pipeline"),
	}, nil
}

// Run executes both branches concurrently and waits for all of them before
// building the report. Analyzer and reviewer failures degrade into the
// report; the only errors returned are cancellation of ctx or an internal
// setup problem.
func (p *Pipeline) Run(ctx context.Context, in analyzers.Input) (*report.Report, error) {
	var results []analyzers.Result
	ai := report.AIResult{Status: report.AIStatusOK, Suggestions: []aireview.Suggestion{}}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		results, err = p.runner.Run(gctx, in, p.cfg.Thresholds())
		return err
	})

	g.Go(func() error {
		aiCtx := gctx
		if p.cfg.AI.TimeoutSeconds > 0 {
			var cancel context.CancelFunc
			aiCtx, cancel = context.WithTimeout(gctx, time.Duration(p.cfg.AI.TimeoutSeconds)*time.Second)
			defer cancel()
		}

		out, err := p.reviewer.Review(aiCtx, in.Diff, p.cfg.AI)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			var failure *aireview.Failure
			if !errors.As(err, &failure) {
				failure = &aireview.Failure{Stage: "transport", Err: err}
			}
			p.log.Warn("ai review branch failed", "stage", failure.Stage, "error", failure.Err)
			ai = report.AIResult{
				Status:      report.AIStatusFailed,
				Suggestions: []aireview.Suggestion{},
				ErrorDetail: failure.Error(),
			}
			return nil
		}
		ai = report.AIResult{
			Status:      report.AIStatusOK,
			Suggestions: out.Suggestions,
			Score:       out.Score,
			Gated:       out.Gated,
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report.Aggregate(results, ai, p.cfg, in.Mode), nil
}
