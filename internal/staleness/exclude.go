package staleness

import (
	"fmt"
	"regexp"

	"github.com/fjglira/GoRef-SiteGen/internal/config"
	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// Rule is a compiled exclusion rule.
type Rule struct {
	Identifier *regexp.Regexp
	Category   string
	Reason     string
}

// Matches reports whether item is selected by the rule. A rule with both an
// identifier pattern and a category requires both to match.
func (r Rule) Matches(item *domain.ReferenceItem) bool {
	if r.Identifier == nil && r.Category == "" {
		return false
	}
	if r.Identifier != nil && !r.Identifier.MatchString(item.Identifier) {
		return false
	}
	if r.Category != "" && r.Category != item.Category {
		return false
	}
	return true
}

func (r Rule) String() string {
	switch {
	case r.Identifier != nil && r.Category != "":
		return fmt.Sprintf("identifier=~%s category=%s", r.Identifier, r.Category)
	case r.Identifier != nil:
		return fmt.Sprintf("identifier=~%s", r.Identifier)
	default:
		return fmt.Sprintf("category=%s", r.Category)
	}
}

// Exclusions is the list of rules applied to "all" and "fresh" selections.
type Exclusions []Rule

// CompileExclusions turns configured rules into Exclusions.
func CompileExclusions(rules []config.ExcludeRule) (Exclusions, error) {
	out := make(Exclusions, 0, len(rules))
	for i, rule := range rules {
		compiled := Rule{Category: rule.Category, Reason: rule.Reason}
		if rule.Identifier != "" {
			re, err := regexp.Compile(rule.Identifier)
			if err != nil {
				return nil, domain.NewError("config", "", 0, fmt.Sprintf("build.exclude[%d]: invalid identifier pattern", i), err)
			}
			compiled.Identifier = re
		}
		out = append(out, compiled)
	}
	return out, nil
}

// Match returns the first rule that selects item.
func (e Exclusions) Match(item *domain.ReferenceItem) (Rule, bool) {
	for _, rule := range e {
		if rule.Matches(item) {
			return rule, true
		}
	}
	return Rule{}, false
}
