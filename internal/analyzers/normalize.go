package analyzers

import (
	"regexp"
	"strconv"
	"strings"
)

// Normalize turns one analyzer's raw output into findings for its category.
// Each parser skips tool-specific noise (headers, progress output, blank
// lines) and silently drops lines it cannot parse; a handful of malformed
// lines never fails the whole analyzer. Source order is preserved. Pure
// function, no I/O.
func Normalize(category Category, raw string) []Finding {
	switch category {
	case CategoryNaming:
		return normalizeNaming(raw)
	case CategoryComplexity:
		return normalizeComplexity(raw)
	case CategorySecurity:
		return normalizeSecurity(raw)
	default:
		return []Finding{}
	}
}

// flake8: "path/to/file.py:12:5: N802 function name 'myFunc' should be lowercase"
var namingLine = regexp.MustCompile(`^(.+?):(\d+):\d+:\s+(\S+\s+.*)$`)

func normalizeNaming(raw string) []Finding {
	findings := []Finding{}
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		m := namingLine.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		lineNo, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		findings = append(findings, Finding{
			Category:    CategoryNaming,
			File:        m[1],
			Line:        lineNo,
			Description: m[3],
			RawLine:     trimmed,
		})
	}
	return findings
}

// radon cc blocks: an unindented file header followed by indented entries of
// the form "    F 12:0 process_payment - C". The letter before the position
// marks the block kind (F/M/C), the trailing letter is the complexity rank.
var complexityEntry = regexp.MustCompile(`^\s+[FMC]\s+(\d+):\d+\s+(\S+)\s+-\s+([A-F])\b`)

func normalizeComplexity(raw string) []Finding {
	findings := []Finding{}
	var current string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, " ") && !strings.HasPrefix(trimmed, "\t") {
			current = strings.TrimSpace(trimmed)
			continue
		}
		m := complexityEntry.FindStringSubmatch(trimmed)
		if m == nil || current == "" {
			continue
		}
		lineNo, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		findings = append(findings, Finding{
			Category:    CategoryComplexity,
			File:        current,
			Line:        lineNo,
			Function:    m[2],
			Description: "cyclomatic complexity rank " + m[3] + " for " + m[2],
			RawLine:     strings.TrimSpace(trimmed),
		})
	}
	return findings
}

// bandit text output: ">> Issue: [B404:blacklist] Consider possible ..."
// followed by indented detail lines including "Location: path:line:col".
var (
	securityIssue    = regexp.MustCompile(`^>>\s+Issue:\s+(.*)$`)
	securityLocation = regexp.MustCompile(`^\s+Location:\s+(.+?):(\d+)(?::\d+)?\s*$`)
)

func normalizeSecurity(raw string) []Finding {
	findings := []Finding{}
	open := -1 // index of the issue awaiting its Location line
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if m := securityIssue.FindStringSubmatch(trimmed); m != nil {
			findings = append(findings, Finding{
				Category:    CategorySecurity,
				Description: m[1],
				RawLine:     trimmed,
			})
			open = len(findings) - 1
			continue
		}
		if open < 0 {
			continue
		}
		if m := securityLocation.FindStringSubmatch(trimmed); m != nil {
			findings[open].File = m[1]
			if n, err := strconv.Atoi(m[2]); err == nil {
				findings[open].Line = n
			}
			open = -1
		}
	}
	return findings
}
