package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// naturalLabelPattern requires the entire trimmed label to be one or more
// leading digits followed by zero or more trailing letters, e.g. "12b".
var naturalLabelPattern = regexp.MustCompile(`^(\d+)([A-Za-z]*)$`)

type naturalKey struct {
	num     float64
	suffix  string
	raw     string
	matched bool
}

func parseNaturalKey(label string) naturalKey {
	trimmed := strings.TrimSpace(label)
	m := naturalLabelPattern.FindStringSubmatch(trimmed)
	if m == nil {
		// non-matching labels sort after all matching ones
		return naturalKey{num: math.Inf(1), raw: trimmed}
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return naturalKey{num: math.Inf(1), raw: trimmed}
	}
	return naturalKey{
		num:     num,
		suffix:  strings.ToLower(m[2]),
		raw:     trimmed,
		matched: true,
	}
}

// NaturalLess orders item labels by numeric part then lowercased letter
// suffix. Labels that do not match the digits+letters pattern sort after
// every matching label, ordered among themselves by raw string comparison.
// Equal keys compare false, so a stable sort preserves input order on ties;
// breakdown charts rely on that to keep same-numeric items adjacent.
func NaturalLess(a, b string) bool {
	ka := parseNaturalKey(a)
	kb := parseNaturalKey(b)

	switch {
	case ka.matched && kb.matched:
		if ka.num != kb.num {
			return ka.num < kb.num
		}
		return ka.suffix < kb.suffix
	case ka.matched:
		return true
	case kb.matched:
		return false
	default:
		return ka.raw < kb.raw
	}
}
