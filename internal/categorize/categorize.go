// Package categorize is the categorization collaborator: an ordered
// list of compiled (pattern, category) rules applied first-match-wins
// over transaction descriptions, with a fallback category when no
// rule matches. The rule table itself is a data asset loaded from a
// YAML file.
package categorize

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultFallback is used when a rule file declares no default.
const DefaultFallback = "Uncategorized"

// Rule pairs a compiled pattern with the category it assigns.
type Rule struct {
	Pattern  *regexp.Regexp
	Category string
}

// Matcher applies rules in declaration order.
type Matcher struct {
	rules    []Rule
	fallback string
}

// NewMatcher builds a matcher over rules with the given fallback.
func NewMatcher(rules []Rule, fallback string) *Matcher {
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &Matcher{rules: rules, fallback: fallback}
}

// Fallback returns the category assigned when nothing matches.
func (m *Matcher) Fallback() string { return m.fallback }

// Match returns the category of the first rule whose pattern matches
// description, or the fallback category.
func (m *Matcher) Match(description string) string {
	for _, r := range m.rules {
		if r.Pattern.MatchString(description) {
			return r.Category
		}
	}
	return m.fallback
}

type ruleEntry struct {
	Match    string `yaml:"match"`
	Category string `yaml:"category"`
}

type ruleFile struct {
	Rules   []ruleEntry `yaml:"rules"`
	Default string      `yaml:"default"`
}

// LoadRules reads a YAML rule file and compiles its patterns. Rule
// order in the file is the match order.
func LoadRules(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	rules := make([]Rule, 0, len(rf.Rules))
	for i, entry := range rf.Rules {
		if entry.Category == "" {
			return nil, fmt.Errorf("rules %s: rule %d has no category", path, i+1)
		}
		re, err := regexp.Compile(entry.Match)
		if err != nil {
			return nil, fmt.Errorf("rules %s: rule %d: %w", path, i+1, err)
		}
		rules = append(rules, Rule{Pattern: re, Category: entry.Category})
	}
	return NewMatcher(rules, rf.Default), nil
}
