// Package rule defines the rule-file data model: one Rule per pattern
// declaration, grouped by start condition, plus the textual rule-file
// parser that builds a RuleList from source text.
package rule

import "github.com/dekarrin/lexgen/internal/regexpr"

// IgnoreTag is the Tag assigned to rules that are not reported to callers
// (declared with the "(ignore)" option, or used only as "(ref)" helpers).
const IgnoreTag = -1

// FirstUserTag is the first Tag value handed out to ordinary, reported
// rules. Tags are assigned sequentially in declaration order.
const FirstUserTag = 1

// Rule is a single pattern declaration from a rule file.
type Rule struct {
	Line       int
	Column     int
	Tag        int
	Conditions []string
	Name       string
	Pattern    string
	Expr       regexpr.Expr
}

// IsIgnored reports whether matches of this rule should be silently
// skipped by the runtime rather than returned to the caller.
func (r Rule) IsIgnored() bool {
	return r.Tag == IgnoreTag
}

// RuleList is an ordered collection of rules, as produced by parsing one
// rule file.
type RuleList struct {
	Rules []Rule
}

// TagNames returns a mapping from Tag to the rule's declared name, skipping
// ignored rules (which have no stable Tag of their own).
func (rl RuleList) TagNames() map[int]string {
	names := make(map[int]string)
	for _, r := range rl.Rules {
		if r.IsIgnored() {
			continue
		}
		names[r.Tag] = r.Name
	}
	return names
}

// Conditions returns the set of distinct, concrete (non-"*") start
// condition names referenced across all rules.
func (rl RuleList) Conditions() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range rl.Rules {
		for _, c := range r.Conditions {
			if c == "*" || seen[c] {
				continue
			}
			seen[c] = true
			names = append(names, c)
		}
	}
	if len(names) == 0 {
		names = []string{"INITIAL"}
	}
	return names
}
