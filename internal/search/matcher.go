package search

import "strings"

// Matches reports whether term occurs in name, ignoring case.
// An empty term matches every name.
func Matches(name, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}

// Matcher is a case-insensitive substring matcher with the term lowered once
type Matcher struct {
	lowered string
}

// NewMatcher prepares a matcher for term
func NewMatcher(term string) Matcher {
	return Matcher{lowered: strings.ToLower(term)}
}

// Match reports whether name contains the matcher's term, ignoring case
func (m Matcher) Match(name string) bool {
	if m.lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), m.lowered)
}
