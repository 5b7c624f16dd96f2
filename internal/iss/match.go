package iss

import "github.com/samber/lo"

// CombinationsMatch reports whether subject applies to criteria.
//
// Component names always have to agree. Outside strict mode a subject with
// the normal variant applies to every criteria variant, and a subject whose
// state is just ["normal"] applies to every criteria state set. In strict
// mode variants and state sets must be equal.
func CombinationsMatch(criteria, subject *Rule, strict bool) bool {
	if criteria.Component != subject.Component {
		return false
	}

	if subject.Variant != Normal || strict {
		if criteria.Variant != subject.Variant {
			return false
		}
	}

	if len(subject.State) > 1 || strict {
		if !sameSet(criteria.State, subject.State) {
			return false
		}
	}
	return true
}

// FindRules returns a predicate selecting the rules that apply to criteria.
//
// A criteria without a parent only accepts parentless subjects. Otherwise a
// parentless subject applies everywhere (outside strict mode) and a subject
// chain is compared to the criteria chain innermost first: it matches when
// it runs out before a disagreement and fails when it is longer than the
// criteria chain.
func FindRules(criteria *Rule, strict bool) func(subject *Rule) bool {
	return func(subject *Rule) bool {
		if criteria.Parent == nil && subject.Parent != nil {
			return false
		}
		if !CombinationsMatch(criteria, subject, strict) {
			return false
		}
		if criteria.Parent == nil {
			return true
		}
		if subject.Parent == nil && !strict {
			return true
		}

		pathCriteria := Unroll(criteria)
		pathSubject := Unroll(subject)
		if len(pathCriteria) < len(pathSubject) {
			return false
		}
		for i, criteriaLevel := range pathCriteria {
			if i >= len(pathSubject) {
				return true
			}
			if !CombinationsMatch(criteriaLevel, pathSubject[i], strict) {
				return false
			}
		}
		return true
	}
}

// Filter keeps the rules of ruleset accepted by predicate, preserving order.
func Filter(ruleset []*Rule, predicate func(*Rule) bool) []*Rule {
	return lo.Filter(ruleset, func(r *Rule, _ int) bool { return predicate(r) })
}

func sameSet(a, b []string) bool {
	return lo.Every(a, b) && lo.Every(b, a)
}
