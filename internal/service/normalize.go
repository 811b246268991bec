package service

import (
	"regexp"
	"strings"
)

// Generated options and answers arrive in whatever shape the model
// felt like: "A. Paris", "a) Paris", "(C) Paris", or a bare letter in
// the correctAnswer field. Everything is reduced to one canonical
// representation here: the answer is always the option text itself.

var enumerantRe = regexp.MustCompile(`^\s*\(?([A-Za-z])[\.\):]\s+`)

// bare letter, optionally wrapped or punctuated: "B", "b.", "(C)"
var bareLetterRe = regexp.MustCompile(`^\s*\(?([A-Za-z])\)?\.?\s*$`)

// StripEnumerant removes a leading "A. " / "a) " / "(B) "-style
// prefix from an option or answer string and trims whitespace.
func StripEnumerant(s string) string {
	return strings.TrimSpace(enumerantRe.ReplaceAllString(s, ""))
}

// ResolveCorrectAnswer maps a raw model-reported correct answer onto
// one of the canonical options. A single letter is resolved by index;
// anything else is enumerant-stripped and matched against the option
// texts. The second return is false when no option matches.
func ResolveCorrectAnswer(raw string, options []string) (string, bool) {
	if m := bareLetterRe.FindStringSubmatch(raw); m != nil {
		idx := int(strings.ToLower(m[1])[0] - 'a')
		if idx >= 0 && idx < len(options) {
			return options[idx], true
		}
		return "", false
	}

	candidate := StripEnumerant(raw)
	for _, opt := range options {
		if AnswersMatch(candidate, opt) {
			return opt, true
		}
	}
	return "", false
}

// AnswersMatch compares two answer strings with trimmed,
// case-insensitive equality.
func AnswersMatch(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
