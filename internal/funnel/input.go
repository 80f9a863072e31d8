package funnel

import (
	"strconv"
	"strings"
)

// Coerce clamps a lead count to a safe value. Negative counts become 0.
func Coerce(n int) int {
	return max(n, 0)
}

// ParseTargetLeads reads a lead count from user input.
// Anything that is not a non-negative integer yields 0. A leading integer
// followed by junk ("12abc") is read as that integer, the way form inputs do.
func ParseTargetLeads(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Coerce(n)
	}

	end := 0
	if s[0] == '+' || s[0] == '-' {
		end = 1
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of range
		return 0
	}
	return Coerce(n)
}
