// Package redact scrubs credentials and personal data out of strings before
// they reach logs. Error values coming from the database driver, the SMTP
// client, or the object store can embed connection strings, tokens, or user
// email addresses; handlers pass them through Error before logging.
package redact

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules are applied in order; credentials embedded in URLs go first so the
// host rule does not split them.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres|postgresql|smtp|smtps|redis)://[^@\s]+@`), "$1://[REDACTED_CREDENTIAL]@"},
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]+`), "Bearer [REDACTED_TOKEN]"},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), "[REDACTED_JWT]"},
	{regexp.MustCompile(`(?i)(password|passwd|pwd|secret)(\s*[=:]\s*)['"]?[^'"&\s]+`), "$1$2[REDACTED]"},
	{regexp.MustCompile(`(AKIA|ASIA)[A-Z0-9]{12,}`), "[REDACTED_KEY]"},
	{regexp.MustCompile(`(?i)(token|api[_-]?key|access[_-]?key)(\s*[=:]\s*)['"]?[A-Za-z0-9_\-.~+/]{8,}`), "$1$2[REDACTED_KEY]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
}

// String returns input with every sensitive fragment replaced by a placeholder.
func String(input string) string {
	if input == "" {
		return input
	}
	out := input
	for _, r := range rules {
		out = r.pattern.ReplaceAllString(out, r.placeholder)
	}
	return out
}

// Error redacts err.Error(). A nil error yields an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
