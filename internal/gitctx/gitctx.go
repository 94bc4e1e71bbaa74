package gitctx

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"vetgate/internal/analyzers"
)

// FromDiffFile reads an already-computed unified diff from disk.
func FromDiffFile(path string) (analyzers.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analyzers.Input{}, fmt.Errorf("reading diff file: %w", err)
	}
	return analyzers.Input{Diff: string(data), Mode: "diff"}, nil
}

// Staged returns the diff of the index vs HEAD.
func Staged() (analyzers.Input, error) {
	diff, err := gitOutput("diff", "--cached")
	if err != nil {
		return analyzers.Input{}, fmt.Errorf("git diff --cached: %w", err)
	}
	return analyzers.Input{Diff: diff, Mode: "diff"}, nil
}

// Range returns the combined diff for a revision range such as
// "origin/main..HEAD".
func Range(revRange string) (analyzers.Input, error) {
	diff, err := gitOutput("diff", revRange)
	if err != nil {
		return analyzers.Input{}, fmt.Errorf("git diff %s: %w", revRange, err)
	}
	return analyzers.Input{Diff: diff, Mode: "diff"}, nil
}

// Checkout resolves full-checkout mode against a base revision: the unified
// diff plus the complete current contents of every changed file. Deleted
// files appear in the diff but not in the file set.
func Checkout(base string) (analyzers.Input, error) {
	diff, err := gitOutput("diff", base+"...HEAD")
	if err != nil {
		return analyzers.Input{}, fmt.Errorf("git diff %s...HEAD: %w", base, err)
	}

	names, err := gitOutput("diff", "--name-only", base+"...HEAD")
	if err != nil {
		return analyzers.Input{}, fmt.Errorf("git diff --name-only: %w", err)
	}

	var files []analyzers.ChangedFile
	for _, name := range strings.Split(strings.TrimSpace(names), "\n") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		data, err := os.ReadFile(name)
		if err != nil {
			if os.IsNotExist(err) {
				continue // deleted in the change-set
			}
			return analyzers.Input{}, fmt.Errorf("reading %s: %w", name, err)
		}
		files = append(files, analyzers.ChangedFile{Path: name, Content: string(data)})
	}

	return analyzers.Input{Diff: diff, Files: files, Mode: "checkout"}, nil
}

// ChangedPaths lists the file paths touched by a unified diff, in order of
// first appearance.
func ChangedPaths(diff string) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(diff, "\n") {
		if !strings.HasPrefix(line, "+++ b/") {
			continue
		}
		p := strings.TrimPrefix(line, "+++ b/")
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	return paths
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, exitErr.Stderr)
		}
		return "", err
	}
	return string(out), nil
}
