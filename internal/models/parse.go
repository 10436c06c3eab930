// ABOUTME: Coercion of free-text numeric input into safe model values.
// ABOUTME: Anything unparsable, non-finite, or negative becomes 0.
package models

import (
	"math"
	"strconv"
	"strings"
)

// ParseWeight converts user input to a weight, coercing bad input to 0.
func ParseWeight(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return SafeNumber(v)
}

// ParseReps converts user input to a rep count, coercing bad input to 0.
// Fractional input is truncated.
func ParseReps(s string) int {
	v := ParseWeight(s)
	if v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// ParseMinutes converts user input to whole minutes, coercing bad input to 0.
func ParseMinutes(s string) int {
	return ParseReps(s)
}

// ParseCompleted converts user input to a completion flag; bad input is false.
func ParseCompleted(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return v
}
