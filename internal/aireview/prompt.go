package aireview

import "strings"

const systemPrompt = `You are a strict, senior code reviewer. You review unified diffs and reply with concise, concrete improvement suggestions.

Rules:
1. Only review the changes shown in the diff. Do not comment on unchanged code.
2. One suggestion per line. Be concrete and actionable; no praise, no preamble.
3. After the suggestions, end your reply with a single line of the exact form "Confidence: X.YZ" where X.YZ is between 0 and 1 and rates your confidence in the review as a whole.`

// BuildPrompt embeds the diff in the fixed review instruction template.
func BuildPrompt(diff string) string {
	var b strings.Builder
	b.WriteString("Review the following unified diff and propose improvements.\n")
	b.WriteString("\n--- BEGIN DIFF ---\n")
	b.WriteString(diff)
	b.WriteString("\n--- END DIFF ---\n")
	return b.String()
}

// SystemPrompt returns the fixed reviewer instructions.
func SystemPrompt() string {
	return systemPrompt
}
