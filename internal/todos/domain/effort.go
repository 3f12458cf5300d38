package domain

import (
	"strconv"
	"strings"

	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/convert"
)

const (
	MinEffort = 0
	MaxEffort = 10
)

// ClampEffort bounds effort to [MinEffort, MaxEffort]. Out-of-range input is
// corrected, never rejected.
func ClampEffort(effort int) int {
	return convert.Clamp(effort, MinEffort, MaxEffort)
}

// ParseEffort reads form input. Anything that is not an integer counts as 0.
func ParseEffort(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return MinEffort
	}
	return ClampEffort(n)
}
