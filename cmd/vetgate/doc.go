// Vetgate gates code changes by running rule-based analyzers and a
// generative reviewer over a change-set and merging both into one report
// with deterministic accept/reject semantics.
//
// Usage:
//
//	vetgate review diff change.diff      # review a unified diff file
//	vetgate review staged                # review staged changes
//	vetgate review range main..HEAD      # review a revision range
//	vetgate review checkout --base main  # review full changed-file contents
//	vetgate review pr owner/repo#42      # review a GitHub pull request
//	vetgate serve                        # run as an HTTP service
//	vetgate config                       # print the effective configuration
//
// The process exits 1 when the auto-reject threshold is exceeded, making it
// usable directly as a CI gate.
package main
