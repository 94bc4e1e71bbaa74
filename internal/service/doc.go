// Package service exposes the review pipeline over HTTP: POST /review takes
// a diff (inline or as a pull-request reference) and returns the full report.
package service
