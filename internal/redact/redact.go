// Package redact provides utilities for redacting sensitive information from strings
// and structured payloads before they are logged or returned in error responses.
// It prevents the accidental leakage of credentials, connection strings, file paths,
// personal data and other sensitive values that end up in error messages or
// request/response bodies.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
	RedactedSQLPlaceholder        = "[SQL_VALUES_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order. Earlier rules see the original text, so the
// more specific shapes (stack traces, connection strings, JWTs) come first.
var rules = []rule{
	// Stack trace fragments
	{regexp.MustCompile(`(?:goroutine \d+ \[[^\]]*\]:|panic:)[\s\S]*`), RedactedStackPlaceholder},
	// Database connection strings
	{regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^@\s]+@`), RedactedCredentialPlaceholder},
	// JWT token pattern - the standard three-part base64url-encoded format
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},
	// Authorization header values
	{regexp.MustCompile(`(?i)\b(Bearer|Basic)\s+[A-Za-z0-9_\-.~+/=]{8,}`), "$1 " + RedactedCredentialPlaceholder},
	// Credentials and tokens in key=value form
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[=:]\s*['"]?[^'"&\s,]{3,}['"]?`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?token|refresh[_-]?token|secret|token)\s*[=:]\s*['"]?[A-Za-z0-9_\-.~+/]{8,}['"]?`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`\b(AKIA|ASIA)[A-Z0-9]{16}\b`), RedactedKeyPlaceholder},
	// SQL statement values
	{regexp.MustCompile(`\b((?:SELECT|INSERT|UPDATE|DELETE)\b[^;]*?\b(?:VALUES|WHERE|SET))\b[\s\S]*`), "$1 " + RedactedSQLPlaceholder},
	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	// File paths
	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(?:\\[^\\\s]+)+`), RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
