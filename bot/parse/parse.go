// Package parse holds the small text conventions the bot shares between the
// command router, the inline results and the conversation flows: relayed
// selection messages, numeric input, yes/no answers and token shapes.
package parse

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	apiTokenRe = regexp.MustCompile(`^[A-Za-z0-9]{14,18}$`)
	tokenMask  = regexp.MustCompile(`[A-Za-z0-9]{14,}`)
	spaces     = regexp.MustCompile(`\s+`)
)

// ValidAPIToken reports whether s looks like a frappe API key or secret.
func ValidAPIToken(s string) bool {
	return apiTokenRe.MatchString(strings.TrimSpace(s))
}

var skipWords = map[string]struct{}{
	"skip": {}, "-": {}, "yo'q": {}, "yoq": {}, "otkaz": {}, "o'tkaz": {},
}

// IsSkip reports whether the user chose to skip an optional prompt.
func IsSkip(s string) bool {
	_, ok := skipWords[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

var yesWords = map[string]struct{}{
	"ha": {}, "ha.": {}, "yes": {}, "y": {}, "true": {}, "1": {},
}

var noWords = map[string]struct{}{
	"yo'q": {}, "yoq": {}, "yo'q.": {}, "no": {}, "n": {}, "false": {}, "0": {},
}

// YesNo interprets a free text answer. ok is false when the text is neither.
func YesNo(s string) (value, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if _, yes := yesWords[normalized]; yes {
		return true, true
	}
	if _, no := noWords[normalized]; no {
		return false, true
	}
	return false, false
}

var ErrNotANumber = errors.New("not a number")

// ParseQty parses a decimal the way users type it, accepting a comma as the
// decimal separator.
func ParseQty(s string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	return v, nil
}

// ParseDate validates a YYYY-MM-DD date and returns it normalized.
func ParseDate(s string) (string, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

// ParseClock validates a HH:MM time of day and returns it normalized.
func ParseClock(s string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format("15:04"), nil
}

// SafePreview prepares user text for logs: long alphanumeric runs that could
// be API tokens are masked and the result is capped at 80 characters.
func SafePreview(s string) string {
	masked := tokenMask.ReplaceAllString(s, "<token>")
	masked = strings.TrimSpace(spaces.ReplaceAllString(masked, " "))
	if len(masked) > 80 {
		masked = masked[:80]
	}
	return masked
}
