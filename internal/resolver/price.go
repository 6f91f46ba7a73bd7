package resolver

import (
	"regexp"
	"strconv"
	"strings"
)

// Prices outside this range are treated as parse failures, not data.
const (
	minSanePrice = 0.01
	maxSanePrice = 20000
)

var numberToken = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsePrice extracts a price from free provider text such as "$1,249.00",
// "USD 89", or "$20 - $40" (first number of a range wins). Returns false when
// nothing parseable or sane is found: the caller defaults the price instead
// of crashing.
func ParsePrice(text string) (float64, bool) {
	match := numberToken.FindString(text)
	if match == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if v < minSanePrice || v >= maxSanePrice {
		return 0, false
	}
	return v, true
}
