// Package report defines the aggregate review report and the deterministic
// merge of analyzer results with the AI review branch.
package report
