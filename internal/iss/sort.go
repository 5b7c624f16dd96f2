package iss

import "sort"

// TextComponent sorts ahead of its same-depth siblings so text decisions see
// settled backgrounds.
const TextComponent = "Text"

// SortRuleset orders rules outside-in: shallower parent chains first, Text
// rules before other rules of the same depth, declaration order otherwise.
// The input slice is not modified.
func SortRuleset(rules []*Rule) []*Rule {
	type entry struct {
		rule  *Rule
		depth int
		text  bool
	}

	entries := make([]entry, len(rules))
	for i, r := range rules {
		entries[i] = entry{rule: r, depth: Depth(r), text: r.Component == TextComponent}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.depth != b.depth {
			return a.depth < b.depth
		}
		return a.text && !b.text
	})

	out := make([]*Rule, len(entries))
	for i, e := range entries {
		out[i] = e.rule
	}
	return out
}
