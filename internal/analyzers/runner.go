package analyzers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"vetgate/internal/logging"
)

// Runner invokes a set of analyzers against a change-set. Each analyzer runs
// in isolation: one failing or timing out never blocks the others, it only
// marks its own result.
type Runner struct {
	analyzers []Analyzer
	timeout   time.Duration
	log       *slog.Logger
}

// NewRunner builds a Runner. timeout bounds each individual analyzer
// invocation; zero means no per-analyzer bound beyond the caller's context.
func NewRunner(set []Analyzer, timeout time.Duration) *Runner {
	return &Runner{
		analyzers: set,
		timeout:   timeout,
		log:       logging.New("analyzers"),
	}
}

// Run fans out over the configured analyzers, waits for all of them, and
// applies the per-category thresholds. Results come back in analyzer
// registration order. The only error returned is a cancelled or expired
// parent context; analyzer failures are carried inside the results.
func (r *Runner) Run(ctx context.Context, in Input, thresholds map[Category]int) ([]Result, error) {
	for cat, t := range thresholds {
		if t < 0 {
			return nil, fmt.Errorf("threshold for %s is negative", cat)
		}
	}

	scratch, err := os.MkdirTemp("", "vetgate-run-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	if err := materialize(scratch, in); err != nil {
		return nil, err
	}

	results := make([]Result, len(r.analyzers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(r.analyzers))
	for i, a := range r.analyzers {
		g.Go(func() error {
			results[i] = r.runOne(gctx, a, in, scratch)
			return nil
		})
	}
	_ = g.Wait() // per-analyzer errors are captured in each Result

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	for i := range results {
		applyThreshold(&results[i], thresholds)
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, a Analyzer, in Input, scratch string) Result {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	raw, err := a.Run(runCtx, in, scratch)
	if err != nil {
		status := StatusFailed
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			status = StatusTimedOut
		}
		r.log.Warn("analyzer did not complete",
			"tool", a.Tool(), "category", a.Category(), "status", status, "error", err)
		return Result{
			Category:    a.Category(),
			Tool:        a.Tool(),
			Status:      status,
			ErrorDetail: err.Error(),
			Findings:    []Finding{},
		}
	}

	findings := Normalize(a.Category(), raw)
	r.log.Debug("analyzer completed", "tool", a.Tool(), "findings", len(findings))
	return Result{
		Category: a.Category(),
		Tool:     a.Tool(),
		Status:   StatusOK,
		Findings: findings,
	}
}

// applyThreshold truncates a result's findings to the per-category limit.
// Zero means unlimited. The dropped count is recorded, not hidden.
func applyThreshold(res *Result, thresholds map[Category]int) {
	t, ok := thresholds[res.Category]
	if !ok || t <= 0 || len(res.Findings) <= t {
		return
	}
	res.Truncated = len(res.Findings) - t
	res.Findings = res.Findings[:t]
}

// materialize writes the change-set under scratch: the unified diff at
// DiffFileName and, in checkout mode, every changed file at its own
// relative path.
func materialize(scratch string, in Input) error {
	if err := os.WriteFile(filepath.Join(scratch, DiffFileName), []byte(in.Diff), 0o644); err != nil {
		return fmt.Errorf("writing diff: %w", err)
	}
	for _, f := range in.Files {
		rel := filepath.Clean(f.Path)
		if rel == "" || filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("refusing to materialize path %q outside scratch dir", f.Path)
		}
		dst := filepath.Join(scratch, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("creating dir for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(dst, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
	}
	return nil
}
