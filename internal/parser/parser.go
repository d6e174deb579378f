// Package parser turns pasted receipt text into bill line items.
//
// Parsing is best effort: each line is tried against an ordered list of
// LineMatchers and lines that no matcher accepts are skipped. A line is only
// accepted when its quantity × price agrees with its printed total, which
// filters out headers, dates and phone numbers that happen to end in numbers.
package parser

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrNoItems is returned when no line of the input could be parsed as an item.
// Callers should keep their previous state and ask the user to check the format.
var ErrNoItems = errors.New("could not parse any items from the bill")

// totalTolerance is the allowed difference between qty × price and the
// printed line total.
const totalTolerance = 0.01

var (
	whitespace    = regexp.MustCompile(`\s+`)
	taxPattern    = regexp.MustCompile(`(?i)tax.*?(\d+(?:\.\d+)?)%`)
	defaultParser = New()
)

// Result is the outcome of a successful parse.
type Result struct {
	// Items are the recognized line items with ids 1..n in line order.
	Items []models.Item

	// TaxRate is the first "tax ... N%" percentage found, if any.
	TaxRate *float64
}

// Parser parses bill text with an ordered list of line matchers.
type Parser struct {
	matchers []LineMatcher
}

// New creates a parser that tries matchers in the given order.
// With no matchers it uses DefaultMatchers.
func New(matchers ...LineMatcher) *Parser {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Parser{matchers: matchers}
}

// Parse parses text with the default matchers.
func Parse(text string) (Result, error) {
	return defaultParser.Parse(text)
}

// Parse extracts items and an optional tax rate from text.
// It returns ErrNoItems when no item was recognized.
func (p *Parser) Parse(text string) (Result, error) {
	var result Result

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		clean := whitespace.ReplaceAllString(strings.TrimSpace(line), " ")

		if c, ok := p.matchLine(clean); ok {
			result.Items = append(result.Items, models.Item{
				ID:        len(result.Items) + 1,
				Name:      c.Name,
				UnitPrice: c.UnitPrice,
				Quantity:  c.Quantity,
			})
		}

		if result.TaxRate == nil {
			if rate, ok := matchTax(line); ok {
				result.TaxRate = &rate
			}
		}
	}

	if len(result.Items) == 0 {
		return Result{}, ErrNoItems
	}
	return result, nil
}

// matchLine returns the first candidate whose arithmetic checks out.
func (p *Parser) matchLine(line string) (Candidate, bool) {
	for _, m := range p.matchers {
		c, ok := m.Match(line)
		if !ok {
			continue
		}
		if math.Abs(c.Quantity*c.UnitPrice-c.Total) < totalTolerance {
			return c, true
		}
	}
	return Candidate{}, false
}

func matchTax(line string) (float64, bool) {
	m := taxPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	rate, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return rate, true
}
