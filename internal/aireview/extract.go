package aireview

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The model is instructed to close its reply with a line of the exact form
// "Confidence: 0.92". Extraction is a fixed grammar, not a heuristic: scan
// the reply from the end for the last line matching the pattern, reject
// out-of-range values, and report a missing line as a parse failure instead
// of guessing a score.
var confidencePattern = regexp.MustCompile(`^Confidence:\s*([0-9]+(?:\.[0-9]+)?)$`)

// ErrNoConfidence means the reply has no trailing confidence line.
var ErrNoConfidence = errors.New("reply has no Confidence line")

// ErrConfidenceRange means the confidence value falls outside [0,1].
var ErrConfidenceRange = errors.New("confidence outside [0,1]")

// Extract splits a raw model reply into ordered suggestion strings and the
// reply-wide confidence score. Formatting-only lines (blank lines, fences,
// rules) are dropped; leading bullet markers are trimmed so renderers can
// re-bullet the suggestions themselves.
func Extract(reply string) ([]string, float64, error) {
	lines := strings.Split(reply, "\n")

	confIdx := -1
	var score float64
	for i := len(lines) - 1; i >= 0; i-- {
		m := confidencePattern.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("parsing confidence %q: %w", m[1], err)
		}
		confIdx = i
		score = v
		break
	}
	if confIdx < 0 {
		return nil, 0, ErrNoConfidence
	}
	if score < 0 || score > 1 {
		return nil, 0, fmt.Errorf("%w: %v", ErrConfidenceRange, score)
	}

	suggestions := []string{}
	for _, line := range lines[:confIdx] {
		s := strings.TrimSpace(line)
		if s == "" || isFormattingNoise(s) {
			continue
		}
		suggestions = append(suggestions, trimBullet(s))
	}
	return suggestions, score, nil
}

// isFormattingNoise reports lines carrying no content: code fences,
// horizontal rules, lone heading or bullet markers.
func isFormattingNoise(s string) bool {
	if strings.HasPrefix(s, "```") {
		return true
	}
	for _, r := range s {
		switch r {
		case '-', '*', '#', '=', '_', '>', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

var bulletPrefix = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)

func trimBullet(s string) string {
	return bulletPrefix.ReplaceAllString(s, "")
}
