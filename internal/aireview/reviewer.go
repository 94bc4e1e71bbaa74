package aireview

import (
	"context"
	"fmt"
	"log/slog"

	"vetgate/internal/cache"
	"vetgate/internal/config"
	"vetgate/internal/logging"
	"vetgate/internal/providers"
	"vetgate/internal/redact"
)

// Suggestion is one retained improvement suggestion. Confidence is the
// reply-wide score, carried on each suggestion for uniform consumption
// downstream.
type Suggestion struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Outcome is the result of one successful review call. Gated marks a reply
// whose confidence fell below the configured minimum: its suggestions are
// withheld but Score is recorded either way. A non-gated Outcome with zero
// suggestions means the model genuinely had nothing to say.
type Outcome struct {
	Suggestions []Suggestion
	Score       float64
	Gated       bool
}

// Failure wraps everything that makes the AI branch unusable for a run:
// transport errors, malformed replies, missing or out-of-range confidence.
// Callers degrade to zero suggestions and a zero score; a Failure never
// aborts the pipeline.
type Failure struct {
	Stage string // "transport" or "parse"
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("ai review %s failure: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Reviewer drives one generative review per call.
type Reviewer struct {
	provider providers.Client
	cache    *cache.Cache
	log      *slog.Logger
}

// New builds a Reviewer. c may be nil to disable caching.
func New(p providers.Client, c *cache.Cache) *Reviewer {
	return &Reviewer{
		provider: p,
		cache:    c,
		log:      logging.New("aireview"),
	}
}

// Review sends the diff for review and returns the gated suggestion batch.
// The provider call is a single atomic operation; any failure comes back as
// a *Failure. Secrets are redacted from the diff before it leaves the
// process.
func (r *Reviewer) Review(ctx context.Context, diff string, cfg config.AI) (Outcome, error) {
	clean := redact.Secrets(diff)

	key := cache.Key(r.provider.Name(), cfg.Model, clean)
	reply, hit := r.cache.Get(key)
	if !hit {
		resp, err := r.provider.Generate(ctx, providers.Request{
			System:      SystemPrompt(),
			Prompt:      BuildPrompt(clean),
			Temperature: cfg.Temperature,
		})
		if err != nil {
			return Outcome{}, &Failure{Stage: "transport", Err: err}
		}
		reply = resp.Content
		if err := r.cache.Put(key, reply); err != nil {
			r.log.Warn("caching model reply failed", "error", err)
		}
	}

	texts, score, err := Extract(reply)
	if err != nil {
		return Outcome{}, &Failure{Stage: "parse", Err: err}
	}

	out := Outcome{Score: score, Suggestions: []Suggestion{}}
	if score < cfg.MinConfidence {
		// The confidence gates the whole batch, not individual suggestions.
		r.log.Info("suggestions gated by confidence",
			"score", score, "min_confidence", cfg.MinConfidence, "dropped", len(texts))
		out.Gated = true
		return out, nil
	}

	if cfg.MaxComments > 0 && len(texts) > cfg.MaxComments {
		texts = texts[:cfg.MaxComments]
	}
	for _, t := range texts {
		out.Suggestions = append(out.Suggestions, Suggestion{Text: t, Confidence: score})
	}
	return out, nil
}
