// Package currency holds the currency-code helpers shared by the controller
// and the sync backend: normalisation, validation and the set arithmetic
// behind the base currency selectors.
package currency

import (
	"slices"
	"strings"
)

const (
	// DefaultCurrency is the only base the provider's free plan accepts.
	DefaultCurrency = "USD"
	// All is the selector sentinel meaning "every base currency". It is
	// never stored and never passed to remove.
	All = "All"
)

// Normalize trims and upper-cases a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsAll reports whether code is the "All" sentinel, ignoring case.
func IsAll(code string) bool {
	return strings.EqualFold(strings.TrimSpace(code), All)
}

// Valid reports whether code is a three-letter ASCII code.
func Valid(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// NormalizeList trims and upper-cases every code, drops empty entries and
// removes duplicates keeping the first occurrence.
func NormalizeList(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		n := Normalize(c)
		if n == "" || IsAll(n) {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Complement returns the codes of universe that are not in set, in the order
// of universe.
func Complement(universe, set []string) []string {
	exclude := make(map[string]struct{}, len(set))
	for _, c := range set {
		exclude[Normalize(c)] = struct{}{}
	}
	out := make([]string, 0, len(universe))
	for _, c := range NormalizeList(universe) {
		if _, ok := exclude[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether set holds code after normalisation.
func Contains(set []string, code string) bool {
	n := Normalize(code)
	return slices.ContainsFunc(set, func(c string) bool { return Normalize(c) == n })
}

// Candidates are the selector lists offered for the base currency set.
type Candidates struct {
	// Add is every supported currency not yet in the base set.
	Add []string `json:"add"`
	// Remove is the base set itself.
	Remove []string `json:"remove"`
	// Display is the base set with the All sentinel in front, for the
	// "update rates for" selector only.
	Display []string `json:"display"`
}

// NewCandidates computes the selector lists for universe and base.
func NewCandidates(universe, base []string) Candidates {
	remove := NormalizeList(base)
	return Candidates{
		Add:     Complement(universe, remove),
		Remove:  remove,
		Display: append([]string{All}, remove...),
	}
}
