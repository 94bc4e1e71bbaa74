// Package gitctx resolves change-sets for review: from a diff file on disk,
// from the local git repository, or as full file contents of changed files
// relative to a base revision (checkout mode).
package gitctx
