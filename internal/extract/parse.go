// Package extract holds the pure extraction functions for the two landbank
// page types: the per-parcel summary sheet and the featured detail page.
package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// parsePrice parses a monetary amount like "$123,456" into whole currency
// units. The caller is expected to have checked for a currency marker first;
// this function only normalizes and parses.
func parsePrice(s string) (int, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "$", ""), ",", ""))
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return n, nil
}

// intAfter parses the integer following the first occurrence of label.
func intAfter(text, label string) (int, error) {
	rest := strings.TrimSpace(after(text, label))
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("expected integer after %q in %q: %w", label, text, err)
	}
	return n, nil
}

// intBefore parses the integer preceding the first occurrence of label.
func intBefore(text, label string) (int, error) {
	rest := strings.TrimSpace(before(text, label))
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("expected integer before %q in %q: %w", label, text, err)
	}
	return n, nil
}

// floatBefore parses the float preceding the first occurrence of label.
func floatBefore(text, label string) (float64, error) {
	rest := strings.TrimSpace(before(text, label))
	f, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number before %q in %q: %w", label, text, err)
	}
	return f, nil
}

func after(text, label string) string {
	if i := strings.Index(text, label); i >= 0 {
		return text[i+len(label):]
	}
	return ""
}

func before(text, label string) string {
	if i := strings.Index(text, label); i >= 0 {
		return text[:i]
	}
	return text
}

// normalizeSpace collapses runs of whitespace to single spaces and trims,
// matching XPath normalize-space semantics.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// intPtr and friends keep overlay construction readable.
func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
