// Package textutil extracts numeric prices and discount percentages
// from free-form scraped text.
package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyRe  = regexp.MustCompile(`[€$£]`)
	spaceRe     = regexp.MustCompile(`\s`)
	thousandsRe = regexp.MustCompile(`\.(\d{3})`)
	numberRe    = regexp.MustCompile(`\d+\.?\d*`)
	discountRe  = regexp.MustCompile(`(-?\d+)%`)
)

// ParsePrice extracts a best-effort non-negative price from arbitrary text.
// Currency symbols and whitespace are stripped, a dot followed by exactly
// three digits is treated as a thousands separator, and a comma as the
// decimal point. Returns 0 when no numeric run is found.
//
// Note the thousands heuristic is lossy: "1.234" meaning one point two
// three four is indistinguishable from 1234 and parses as the latter.
func ParsePrice(text string) float64 {
	if text == "" {
		return 0
	}

	cleaned := currencyRe.ReplaceAllString(text, "")
	cleaned = spaceRe.ReplaceAllString(cleaned, "")
	cleaned = thousandsRe.ReplaceAllString(cleaned, "$1")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	match := numberRe.FindString(cleaned)
	if match == "" {
		return 0
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// ParseDiscount extracts the first percentage run from text, as a
// non-negative integer. Returns 0 when absent.
func ParseDiscount(text string) int {
	match := discountRe.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	if value < 0 {
		return -value
	}
	return value
}
