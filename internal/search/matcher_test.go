package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesIsCaseInsensitiveSubstring(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"report.txt", true},
		{"REPORT.TXT", true},
		{"MyReport2024.csv", true},
		{"reporting_excluded.log", true},
		{"repo.txt", false},
		{"r e p o r t", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Matches(c.name, "Report"), c.name)
		assert.Equal(t, c.want, NewMatcher("Report").Match(c.name), c.name)
	}
}

func TestEmptyTermMatchesEverything(t *testing.T) {
	assert.True(t, Matches("anything", ""))
	assert.True(t, NewMatcher("").Match(""))
}
