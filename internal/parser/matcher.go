package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Candidate is a line item proposed by a matcher. The parser accepts it only
// if Quantity × UnitPrice agrees with Total.
type Candidate struct {
	Name      string
	Quantity  float64
	UnitPrice float64
	Total     float64
}

// LineMatcher recognizes one bill line format.
type LineMatcher interface {
	// Name identifies the format (for logs and tests).
	Name() string

	// Match returns a candidate item for a whitespace-collapsed line.
	Match(line string) (Candidate, bool)
}

const number = `(\d+(?:\.\d+)?)`

// DefaultMatchers returns the built-in formats in priority order:
//
//	Paneer Tikka 2 250 500
//	Paneer Tikka 2 x 250 = 500
//	Paneer Tikka 2 @ 250 = 500
func DefaultMatchers() []LineMatcher {
	return []LineMatcher{
		MustPatternMatcher("columns", `^(.+?)\s+`+number+`\s+`+number+`\s+`+number+`$`),
		MustPatternMatcher("multiply", `(?i)^(.+?)\s+`+number+`\s*x\s*`+number+`\s*=?\s*`+number+`$`),
		MustPatternMatcher("at-rate", `(?i)^(.+?)\s+`+number+`\s*@\s*`+number+`\s*=?\s*`+number+`$`),
	}
}

// PatternMatcher matches lines with a regular expression whose four capture
// groups are, in order, name, quantity, unit price and total.
type PatternMatcher struct {
	name string
	re   *regexp.Regexp
}

// NewPatternMatcher compiles pattern into a PatternMatcher.
func NewPatternMatcher(name, pattern string) (*PatternMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &PatternMatcher{name: name, re: re}, nil
}

// MustPatternMatcher is like NewPatternMatcher but panics on a bad pattern.
// Intended for package-level matcher tables.
func MustPatternMatcher(name, pattern string) *PatternMatcher {
	m, err := NewPatternMatcher(name, pattern)
	if err != nil {
		panic("parser: " + err.Error())
	}
	return m
}

// Name implements LineMatcher.
func (m *PatternMatcher) Name() string { return m.name }

// Match implements LineMatcher.
func (m *PatternMatcher) Match(line string) (Candidate, bool) {
	sub := m.re.FindStringSubmatch(line)
	if len(sub) != 5 {
		return Candidate{}, false
	}
	var nums [3]float64
	for i, s := range sub[2:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Candidate{}, false
		}
		nums[i] = v
	}
	return Candidate{
		Name:      strings.TrimSpace(sub[1]),
		Quantity:  nums[0],
		UnitPrice: nums[1],
		Total:     nums[2],
	}, true
}
