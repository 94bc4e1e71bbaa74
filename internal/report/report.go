package report

import (
	"vetgate/internal/aireview"
	"vetgate/internal/analyzers"
	"vetgate/internal/config"
)

// AIStatus records how the AI branch ended.
type AIStatus string

const (
	AIStatusOK     AIStatus = "ok"
	AIStatusFailed AIStatus = "failed"
)

// AIResult is the fan-in value from the AI branch. A failed branch carries
// zero suggestions and a zero score but never blocks the report.
type AIResult struct {
	Status      AIStatus             `json:"status"`
	Suggestions []aireview.Suggestion `json:"suggestions"`
	Score       float64              `json:"score"`
	// Gated marks suggestions withheld because the reply's confidence fell
	// below the configured minimum, as opposed to a reply that had none.
	Gated       bool   `json:"gated,omitempty"`
	ErrorDetail string `json:"errorDetail,omitempty"`
}

// Section holds one analyzer's contribution in the report's fixed category
// order. Status distinguishes an analyzer that found nothing from one that
// never ran to completion.
type Section struct {
	Category    analyzers.Category   `json:"category"`
	Tool        string               `json:"tool"`
	Status      analyzers.ToolStatus `json:"status"`
	ErrorDetail string               `json:"errorDetail,omitempty"`
	Findings    []analyzers.Finding  `json:"findings"`
	Truncated   int                  `json:"truncated,omitempty"`
}

// Report is the single decision-bearing output of a pipeline run. It is
// built exactly once and never mutated; identical inputs produce
// byte-identical reports.
type Report struct {
	Tool              string    `json:"tool"`
	Version           string    `json:"version"`
	Mode              string    `json:"mode,omitempty"`
	Sections          []Section `json:"sections"`
	AI                AIResult  `json:"ai"`
	OverallViolations int       `json:"overallViolations"`
	AutoReject        bool      `json:"autoReject"`
}

// Findings returns the findings recorded for one category, in source order.
func (r *Report) Findings(cat analyzers.Category) []analyzers.Finding {
	for _, s := range r.Sections {
		if s.Category == cat {
			return s.Findings
		}
	}
	return nil
}

const (
	toolName    = "vetgate"
	toolVersion = "0.3.0"
)

// Aggregate merges threshold-filtered analyzer results and the AI branch
// outcome into one Report. Sections follow the declared category order;
// the violation count sums the retained findings across all categories;
// auto-reject fires only when enabled and the count exceeds the configured
// threshold.
func Aggregate(results []analyzers.Result, ai AIResult, cfg config.Config, mode string) *Report {
	rep := &Report{
		Tool:     toolName,
		Version:  toolVersion,
		Mode:     mode,
		Sections: []Section{},
		AI:       ai,
	}
	if rep.AI.Suggestions == nil {
		rep.AI.Suggestions = []aireview.Suggestion{}
	}

	for _, cat := range analyzers.Categories {
		for _, res := range results {
			if res.Category != cat {
				continue
			}
			findings := res.Findings
			if findings == nil {
				findings = []analyzers.Finding{}
			}
			rep.Sections = append(rep.Sections, Section{
				Category:    res.Category,
				Tool:        res.Tool,
				Status:      res.Status,
				ErrorDetail: res.ErrorDetail,
				Findings:    findings,
				Truncated:   res.Truncated,
			})
			rep.OverallViolations += len(findings)
		}
	}

	rep.AutoReject = cfg.AutoReject.Enabled &&
		rep.OverallViolations > cfg.AutoReject.OverallThreshold
	return rep
}
