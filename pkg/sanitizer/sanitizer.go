// Package sanitizer normalizes guest-entered free text before it is validated
// or stored. Format validation of contact fields stays in the validator; this
// only removes whitespace noise.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses any run of whitespace into a
// single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}
	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeOccasion(occasion string) string {
	return TrimAndNormalize(occasion)
}

// NormalizeEmail lowercases in addition to whitespace cleanup.
func NormalizeEmail(email string) string {
	return strings.ToLower(TrimAndNormalize(email))
}

// NormalizeCustomData cleans keys and values of venue-defined extra fields.
// Entries whose key collapses to empty are dropped.
func NormalizeCustomData(data map[string]string) map[string]string {
	if data == nil {
		return nil
	}
	cleaned := make(map[string]string, len(data))
	for k, v := range data {
		key := TrimAndNormalize(k)
		if key == "" {
			continue
		}
		cleaned[key] = TrimAndNormalize(v)
	}
	return cleaned
}
