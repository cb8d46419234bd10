package errors

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// MaxDuration bounds simulated session length accepted from untrusted callers (seconds).
const MaxDuration = 600.0

// ParseSeed parses a decimal seed as supplied on a command line or query string.
// An empty string is rejected so callers decide explicitly whether to pick a random seed.
func ParseSeed(raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, New(ErrCodeInvalidInput, "seed cannot be empty")
	}
	for _, r := range raw {
		if !unicode.IsDigit(r) {
			return 0, New(ErrCodeInvalidInput, "seed must be a non-negative integer: %q", raw)
		}
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "seed out of range")
	}
	return seed, nil
}

// ValidateDuration checks a simulated session length in seconds.
func ValidateDuration(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return New(ErrCodeInvalidInput, "duration must be a finite number")
	}
	if seconds <= 0 {
		return New(ErrCodeInvalidInput, "duration must be positive, got %g", seconds)
	}
	if seconds > MaxDuration {
		return New(ErrCodeInvalidInput, "duration too long (max %gs)", MaxDuration)
	}
	return nil
}
