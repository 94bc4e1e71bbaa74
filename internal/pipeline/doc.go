// Package pipeline wires the rule-based analyzers and the AI review branch
// into a fan-out/fan-in barrier and aggregates their results into one report.
package pipeline
