// Package redact strips sensitive information from strings before they are
// logged or attached to error responses: connection strings, credentials,
// JWT tokens, and email addresses.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

// Precompiled patterns for values that must never reach the logs verbatim.
var (
	// user:password@ in connection URLs
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// password=..., pwd: ..., etc.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd|secret)([=:\s]['"]?)[^'"&\s]{3,}`)

	// Standard three-part base64url JWT
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := dbConnRegex.ReplaceAllString(input, RedactedCredentialPlaceholder)
	result = passwordRegex.ReplaceAllString(result, "$1$2"+RedactedCredentialPlaceholder)
	result = jwtTokenRegex.ReplaceAllString(result, RedactedJWTPlaceholder)
	result = emailRegex.ReplaceAllString(result, RedactedEmailPlaceholder)

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
