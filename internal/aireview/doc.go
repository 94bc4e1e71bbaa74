// Package aireview implements the generative review branch: prompt assembly,
// one provider call, confidence extraction, and the minimum-confidence gate.
package aireview
