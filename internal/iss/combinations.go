package iss

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Disabled cannot be combined with any of ExclusiveWithDisabled.
const Disabled = "disabled"

// ExclusiveWithDisabled lists states a disabled element can never be in.
var ExclusiveWithDisabled = []string{"hover", "focused", "pressed"}

// AllPossibleCombinations returns every unique non-empty subset of items,
// smallest subsets first. Subsets of two or more items are sorted, so {a,b}
// and {b,a} collapse into one entry. Items must already be unique.
func AllPossibleCombinations(items []string) [][]string {
	if len(items) == 0 {
		return nil
	}

	levels := [][][]string{lo.Map(items, func(item string, _ int) []string { return []string{item} })}
	for size := 2; size <= len(items); size++ {
		previous := levels[len(levels)-1]
		seen := make(map[string]struct{})
		var next [][]string
		for _, subset := range previous {
			for _, item := range items {
				if lo.Contains(subset, item) {
					continue
				}
				candidate := append(append([]string(nil), subset...), item)
				sort.Strings(candidate)
				key := strings.Join(candidate, ",")
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				next = append(next, candidate)
			}
		}
		levels = append(levels, next)
	}
	return lo.Flatten(levels)
}

// StateCombinations expands the non-normal state names of a component into
// the state sets to materialise: ["normal"] followed by "normal" plus every
// subset, minus the sets pairing disabled with hover, focused or pressed.
func StateCombinations(stateNames []string) [][]string {
	toggles := lo.Without(lo.Uniq(stateNames), Normal)
	out := [][]string{{Normal}}
	for _, subset := range AllPossibleCombinations(toggles) {
		if lo.Contains(subset, Disabled) && lo.Some(subset, ExclusiveWithDisabled) {
			continue
		}
		out = append(out, append([]string{Normal}, subset...))
	}
	return out
}
