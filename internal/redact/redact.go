// Package redact scrubs sensitive fragments out of strings before they reach
// logs. Error text in this service can carry connection URLs, SQL, bearer
// tokens, and filesystem paths; none of those belong in log output.
package redact

import "regexp"

// Placeholder substituted for each redacted fragment.
const Placeholder = "[REDACTED]"

var sensitivePatterns = []*regexp.Regexp{
	// Connection strings with inline credentials
	regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`),

	// Bearer tokens in the standard three-part JWT shape
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),

	// Password and secret assignments
	regexp.MustCompile(`(?i)(password|passwd|secret|api[_-]?key|token)(['"\s:=]+)[^'"&\s]{3,}`),

	// SQL fragments leaked from driver errors
	regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)[\s\w,*()]+(?:FROM|INTO|SET)[\s\w,*()='"$.]+`),

	// Filesystem paths
	regexp.MustCompile(`(/[\w.-]+){2,}`),

	// Email addresses
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
}

// String returns s with every sensitive fragment replaced by Placeholder.
func String(s string) string {
	for _, pattern := range sensitivePatterns {
		s = pattern.ReplaceAllString(s, Placeholder)
	}
	return s
}

// Error returns the redacted message of err, or "" for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
