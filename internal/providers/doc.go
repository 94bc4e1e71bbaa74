// Package providers implements the generative-model transport used by the
// AI review branch.
//
// Each provider turns one logical request (prompt plus temperature) into one
// logical response (raw model text). Authentication and endpoint selection
// come from the environment; transient rate-limit errors are retried with
// exponential back-off. HTTP endpoints are overridable so tests can point a
// provider at a local httptest server.
package providers
