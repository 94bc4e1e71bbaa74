// Package analyzers runs the rule-based side of a review: external static
// analysis tools invoked in isolation over a change-set, their raw output
// normalized into one finding schema per category.
//
// The three built-in categories are naming conventions (flake8), cyclomatic
// complexity (radon), and security issues (bandit). Each analyzer runs in
// its own goroutine with its own timeout; a failing or hanging tool marks
// only its own result and never blocks the other categories. After
// collection, per-category thresholds truncate finding lists with the
// dropped count kept visible.
//
// New rule families implement the [Analyzer] interface and register with
// the runner; the control flow never changes.
package analyzers
