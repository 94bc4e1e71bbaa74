// Package cli implements the vetgate command tree: review subcommands for
// the different change-set sources, the HTTP serve command, config
// inspection, and version.
// Command handlers set a package-level exit code consumed by Run.
package cli
