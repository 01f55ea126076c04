// Package redact provides utilities for redacting sensitive information
// from strings before they are logged or returned in error responses.
// Error text from the OpenRouter client can echo request headers, and
// store errors can echo connection strings; both must be scrubbed before
// they reach a log line.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

// Precompiled regex patterns
var (
	// Database connection strings with inline credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// OpenRouter API keys ("sk-or-..." and the older "sk-..." OpenAI shape)
	openRouterKeyRegex = regexp.MustCompile(`sk-(?:or-)?[A-Za-z0-9_\-]{8,}`)

	// Bearer tokens in echoed Authorization headers
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]{8,}`)

	// JWT token pattern - the standard three-part base64url format
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Generic key/secret assignments
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{openRouterKeyRegex, RedactedKeyPlaceholder},
		{bearerRegex, "Bearer " + RedactedKeyPlaceholder},
		{jwtTokenRegex, "[REDACTED_JWT]"},
		{apiKeyRegex, "${1}${2}" + RedactedKeyPlaceholder},
	}
)

// String returns a copy of s with credentials, API keys, and tokens
// replaced by placeholders.
func String(s string) string {
	for _, pp := range patternPlaceholders {
		s = pp.pattern.ReplaceAllString(s, pp.placeholder)
	}
	return s
}

// Error returns the redacted message of err, or an empty string when err
// is nil. Safe to call on any error, including wrapped chains.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
