package analyzers

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// Category identifies the rule family an analyzer checks.
type Category string

const (
	CategoryNaming     Category = "naming_convention"
	CategoryComplexity Category = "complexity"
	CategorySecurity   Category = "security"
)

// Categories is the declared iteration order for everything that walks
// results by category. Reports are built in this order.
var Categories = []Category{CategoryNaming, CategoryComplexity, CategorySecurity}

// Finding is one normalized violation from a single analyzer. Category is
// fixed at creation and matches the analyzer the finding was drawn from.
type Finding struct {
	Category    Category `json:"category"`
	File        string   `json:"file"`
	Line        int      `json:"line,omitempty"`
	Function    string   `json:"function,omitempty"`
	Description string   `json:"description"`
	RawLine     string   `json:"rawLine"`
}

// ToolStatus records how an analyzer invocation ended.
type ToolStatus string

const (
	StatusOK       ToolStatus = "ok"
	StatusFailed   ToolStatus = "failed"
	StatusTimedOut ToolStatus = "timed_out"
)

// Result is the outcome of one analyzer invocation. A non-ok status implies
// an empty finding list; it never aborts the run as a whole.
type Result struct {
	Category    Category   `json:"category"`
	Tool        string     `json:"tool"`
	Status      ToolStatus `json:"status"`
	ErrorDetail string     `json:"errorDetail,omitempty"`
	Findings    []Finding  `json:"findings"`
	// Truncated counts findings dropped by the per-category threshold so
	// truncation stays visible in the report.
	Truncated int `json:"truncated,omitempty"`
}

// ChangedFile is one file of a change-set in full-checkout mode.
type ChangedFile struct {
	Path    string
	Content string
}

// Input is the already-resolved change-set analyzers run against. Diff is
// always set; Files is populated only in checkout mode. How the input was
// obtained (local file, git, hosting API) is the caller's concern.
type Input struct {
	Diff  string
	Files []ChangedFile
	Mode  string // "diff" or "checkout"
}

// DiffFileName is where the runner materializes the unified diff inside the
// scratch directory handed to analyzers.
const DiffFileName = "change.diff"

// Analyzer invokes one external tool against a change-set. Implementations
// must be safe to run concurrently with each other; new rule families
// register additional implementations without touching the runner.
type Analyzer interface {
	Category() Category
	Tool() string
	// Run executes the tool and returns its raw textual output. scratch is
	// a private directory holding the materialized change-set.
	Run(ctx context.Context, in Input, scratch string) (string, error)
}

// execAnalyzer shells out to an installed tool inside the scratch directory.
type execAnalyzer struct {
	category Category
	tool     string
	args     func(in Input, scratch string) []string
	// maxOKExit is the highest exit code the tool uses to mean "ran fine,
	// violations found" (linters conventionally exit 1). Anything above it
	// is a tool failure.
	maxOKExit int
}

func (a *execAnalyzer) Category() Category { return a.category }
func (a *execAnalyzer) Tool() string       { return a.tool }

func (a *execAnalyzer) Run(ctx context.Context, in Input, scratch string) (string, error) {
	cmd := exec.CommandContext(ctx, a.tool, a.args(in, scratch)...)
	cmd.Dir = scratch
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			if exitErr.ExitCode() <= a.maxOKExit {
				return string(out), nil
			}
			return "", fmt.Errorf("%s exited with code %d: %s", a.tool, exitErr.ExitCode(), exitErr.Stderr)
		}
		return "", fmt.Errorf("running %s: %w", a.tool, err)
	}
	return string(out), nil
}

// Set builds the analyzer set for the configured per-category tool
// commands. Categories missing from tools, or mapped to "" or "none", are
// not run at all. Invocation shape and exit-code handling are fixed per
// category; the command is the caller's choice.
func Set(tools map[Category]string) []Analyzer {
	set := []Analyzer{}
	for _, cat := range Categories {
		tool := tools[cat]
		if tool == "" || tool == "none" {
			continue
		}
		set = append(set, forCategory(cat, tool))
	}
	return set
}

// Default returns the standard analyzer set: flake8 for naming conventions,
// radon for cyclomatic complexity, bandit for security issues.
func Default() []Analyzer {
	return Set(map[Category]string{
		CategoryNaming:     "flake8",
		CategoryComplexity: "radon",
		CategorySecurity:   "bandit",
	})
}

func forCategory(cat Category, tool string) *execAnalyzer {
	switch cat {
	case CategoryNaming:
		return &execAnalyzer{
			category:  cat,
			tool:      tool,
			maxOKExit: 1,
			args: func(in Input, scratch string) []string {
				if in.Mode == "checkout" && len(in.Files) > 0 {
					return append([]string{"--select=N,E7"}, filePaths(in)...)
				}
				return []string{"--select=N,E7", "--diff", filepath.Join(scratch, DiffFileName)}
			},
		}
	case CategoryComplexity:
		return &execAnalyzer{
			category: cat,
			tool:     tool,
			args: func(in Input, scratch string) []string {
				if in.Mode == "checkout" && len(in.Files) > 0 {
					return append([]string{"cc", "--min", "B"}, filePaths(in)...)
				}
				return []string{"cc", "--min", "B", "."}
			},
		}
	default:
		return &execAnalyzer{
			category:  cat,
			tool:      tool,
			maxOKExit: 1,
			args: func(in Input, scratch string) []string {
				if in.Mode == "checkout" && len(in.Files) > 0 {
					return append([]string{"-q"}, filePaths(in)...)
				}
				return []string{"-q", "-r", "."}
			},
		}
	}
}

func filePaths(in Input) []string {
	paths := make([]string, 0, len(in.Files))
	for _, f := range in.Files {
		paths = append(paths, f.Path)
	}
	return paths
}
