package rewrite

import (
	"regexp"
	"sort"
	"strings"
)

// StaticAliases are colloquial shorthands that never appear in the corpus
// itself but show up constantly in user queries.
var StaticAliases = map[string]string{
	"bp":    "blood pressure",
	"tb":    "tuberculosis",
	"flu":   "influenza",
	"sugar": "diabetes",
	"uti":   "urinary tract infection",
}

// aliasRule is one precompiled whole-word alias substitution.
type aliasRule struct {
	alias     string
	canonical string
	pattern   *regexp.Regexp
}

// compileAliasRules merges alias tables (later tables win) and compiles
// whole-word, case-insensitive patterns. Rules are ordered longest alias
// first so compound aliases are substituted before their sub-parts, with a
// lexicographic tiebreak for determinism.
func compileAliasRules(tables ...map[string]string) []aliasRule {
	merged := make(map[string]string)
	for _, table := range tables {
		for alias, canonical := range table {
			merged[strings.ToLower(alias)] = strings.ToLower(canonical)
		}
	}

	rules := make([]aliasRule, 0, len(merged))
	for alias, canonical := range merged {
		rules = append(rules, aliasRule{
			alias:     alias,
			canonical: canonical,
			pattern:   regexp.MustCompile(`\b` + regexp.QuoteMeta(alias) + `\b`),
		})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].alias) != len(rules[j].alias) {
			return len(rules[i].alias) > len(rules[j].alias)
		}
		return rules[i].alias < rules[j].alias
	})
	return rules
}

// applyAliases substitutes known aliases with their canonical condition
// form. Substitution is whole-word only and idempotent: a query that
// already contains the canonical form is left alone for that rule, so
// repeated application cannot re-expand or corrupt a term.
func applyAliases(query string, rules []aliasRule) string {
	for _, rule := range rules {
		if strings.Contains(query, rule.canonical) {
			continue
		}
		query = rule.pattern.ReplaceAllString(query, rule.canonical)
	}
	return query
}
