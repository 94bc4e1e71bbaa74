package redact

import "regexp"

const placeholder = "[REDACTED]"

var patterns = []*regexp.Regexp{
	// key/secret/token/password assignments
	regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password|credential)\s*[:=]\s*["']?[A-Za-z0-9/+=_.-]{12,}["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// bearer headers
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// private key headers
	regexp.MustCompile(`-----BEGIN[A-Z ]*PRIVATE KEY-----`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// OpenAI / Anthropic API keys
	regexp.MustCompile(`sk-(ant-)?[A-Za-z0-9_-]{20,}`),
}

// Secrets replaces everything matching a known credential shape with a
// placeholder.
func Secrets(text string) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, placeholder)
	}
	return text
}
