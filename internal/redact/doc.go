// Package redact strips obvious credentials from diff text before it is sent
// to a generative model.
package redact
