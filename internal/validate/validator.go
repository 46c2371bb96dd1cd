// Package validate gates recovered content before it is republished.
package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"qsrescue/internal/model"
)

// Validator decides whether sanitized content is plausible application data
// rather than binary noise. All three checks are advisory heuristics tuned
// against real recovered corpora, not protocol guarantees: they reject the
// obvious garbage (term-format residue, base64-like identifier fragments)
// and accept everything that could plausibly be a message.
type Validator struct {
	heur model.HeuristicsConfig
}

// New creates a validator with the given thresholds
func New(heur model.HeuristicsConfig) *Validator {
	return &Validator{heur: heur}
}

// Valid reports whether content passes all acceptance heuristics
func (v *Validator) Valid(content string) bool {
	if utf8.RuneCountInString(content) < v.heur.MinContentLen {
		return false
	}
	if !v.mostlyPrintable(content) {
		return false
	}
	if v.looksLikeBase64Noise(content) {
		return false
	}
	return true
}

// mostlyPrintable samples the leading characters and requires the configured
// share of them to be printable or whitespace-class.
func (v *Validator) mostlyPrintable(content string) bool {
	sampled := 0
	printable := 0
	for _, r := range content {
		if sampled == v.heur.TextProbeLen {
			break
		}
		sampled++
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	return float64(printable) >= float64(sampled)*v.heur.PrintableRatio
}

// looksLikeBase64Noise flags long content that is purely alphanumeric once
// newlines are removed. Real payloads carry punctuation or whitespace;
// unbroken alphanumeric runs of this length are almost always encoded
// identifier fragments misclassified as text.
func (v *Validator) looksLikeBase64Noise(content string) bool {
	if utf8.RuneCountInString(content) <= v.heur.AlnumGuardLen {
		return false
	}

	stripped := strings.TrimSpace(content)
	stripped = strings.ReplaceAll(stripped, "\n", "")
	stripped = strings.ReplaceAll(stripped, "\r", "")
	if stripped == "" {
		return false
	}

	for _, r := range stripped {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
