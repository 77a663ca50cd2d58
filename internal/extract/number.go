// Package extract pulls numbers and normalized levels out of free-text role
// attributes.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	fractionRe = regexp.MustCompile(`(-?\d+)\s*/\s*(\d+)`)
	decimalRe  = regexp.MustCompile(`-?\d+\.\d+`)
	integerRe  = regexp.MustCompile(`-?\d+`)
)

// Number returns the first continuous quantity in raw. Fractions win over
// decimals, and decimals over integers; only the first match of a class is
// considered. ok is false when raw is blank, has no digits, or holds a
// fraction with a zero denominator.
func Number(raw string) (value float64, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.ContainsFunc(raw, unicode.IsDigit) {
		return 0, false
	}

	if m := fractionRe.FindStringSubmatch(raw); m != nil {
		num, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		den, err := strconv.ParseFloat(m[2], 64)
		if err != nil || den == 0 {
			return 0, false
		}
		return num / den, true
	}

	if m := decimalRe.FindString(raw); m != "" {
		v, err := strconv.ParseFloat(m, 64)
		return v, err == nil
	}

	if m := integerRe.FindString(raw); m != "" {
		v, err := strconv.ParseFloat(m, 64)
		return v, err == nil
	}

	return 0, false
}

// HoursPerDay converts hour-based commitments into days.
const HoursPerDay = 8

var variableCommitments = map[string]bool{
	"varies":           true,
	"variable":         true,
	"tbd":              true,
	"to be determined": true,
}

// Days parses a time commitment into days. Variable commitments and
// anything that fails to parse to a positive amount count as zero.
func Days(raw string) float64 {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	if s == "" || variableCommitments[lower] {
		return 0
	}
	if isAlpha(s) && strings.Contains(lower, "varies") {
		return 0
	}

	v, ok := Number(s)
	if !ok || v <= 0 {
		return 0
	}
	if strings.Contains(lower, "hours") || strings.Contains(lower, "hr") {
		return v / HoursPerDay
	}
	return v
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
