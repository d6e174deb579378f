// Package calculator implements the bill allocation math: assignment
// validation, proportional settlement of tax and round-off, and the
// per-member breakdown shown on payment summaries.
//
// All functions are pure; callers own the state they pass in.
package calculator

import (
	"math"

	"github.com/mmynk/billsplit/internal/models"
)

// Input is everything Calculate needs.
type Input struct {
	Items       []models.Item
	Assignments models.Assignments
	Members     []string
	TaxRate     float64 // percent
	RoundOff    bool
}

// FromSnapshot builds an Input from a session snapshot.
func FromSnapshot(s *models.Snapshot) Input {
	return Input{
		Items:       s.Items,
		Assignments: s.Assignments,
		Members:     s.Members,
		TaxRate:     s.TaxRate,
		RoundOff:    s.RoundOffTotal,
	}
}

// MemberShare is one member's part of the bill.
type MemberShare struct {
	Member string

	// RawTotal is the pre-tax cost of the member's assigned items.
	RawTotal float64

	// Total is RawTotal plus proportional tax and round-off.
	Total float64

	// Orders lists the member's items in item order.
	Orders []models.OrderLine

	// Breakdown is the per-line display split of Total.
	Breakdown Breakdown
}

// Settlement is the result of Calculate.
type Settlement struct {
	Subtotal        float64
	TaxRate         float64
	TaxAmount       float64
	CalculatedTotal float64
	GrandTotal      float64

	// RoundOffAmount is GrandTotal − CalculatedTotal (signed). Always 0 when
	// round-off is disabled.
	RoundOffAmount float64

	// TotalBeforeTax is Σ RawTotal over all members.
	TotalBeforeTax float64

	// TotalAssigned is Σ Total over all members.
	TotalAssigned float64

	// Shares holds one entry per member in member order.
	Shares []MemberShare
}

// Share returns the share for member.
func (s *Settlement) Share(member string) (MemberShare, bool) {
	for _, share := range s.Shares {
		if share.Member == member {
			return share, true
		}
	}
	return MemberShare{}, false
}

// MemberTotals returns member → final total.
func (s *Settlement) MemberTotals() map[string]float64 {
	totals := make(map[string]float64, len(s.Shares))
	for _, share := range s.Shares {
		totals[share.Member] = share.Total
	}
	return totals
}

// MemberOrderLines returns member → order lines.
func (s *Settlement) MemberOrderLines() map[string][]models.OrderLine {
	orders := make(map[string][]models.OrderLine, len(s.Shares))
	for _, share := range s.Shares {
		orders[share.Member] = share.Orders
	}
	return orders
}

// Calculate computes each member's share of the bill.
//
// Tax and round-off are distributed in proportion to each member's pre-tax
// assigned total:
//
//	member_total = raw × (1 + tax_rate/100) + round_off × raw / Σraw
//
// When nothing is assigned to anyone every member total is 0. Assignments for
// names that are not in Members are ignored. Any amount that overflows
// float64 is reported as 0, so results are always finite.
func Calculate(in Input) Settlement {
	taxRate := finite(in.TaxRate)
	s := Settlement{TaxRate: taxRate}
	for _, item := range in.Items {
		s.Subtotal = finite(s.Subtotal + finite(item.Total()))
	}
	s.TaxAmount = finite(s.Subtotal * taxRate / 100)
	s.CalculatedTotal = finite(s.Subtotal + s.TaxAmount)
	s.GrandTotal = s.CalculatedTotal
	if in.RoundOff {
		s.GrandTotal = finite(roundHalfUp(s.CalculatedTotal))
		s.RoundOffAmount = finite(s.GrandTotal - s.CalculatedTotal)
	}

	s.Shares = make([]MemberShare, len(in.Members))
	for i, m := range in.Members {
		s.Shares[i] = MemberShare{Member: m}
	}

	for _, item := range in.Items {
		assigned := in.Assignments[item.ID]
		if len(assigned) == 0 {
			continue
		}
		for i, member := range in.Members {
			qty := assigned[member]
			if qty <= 0 {
				continue
			}
			share := &s.Shares[i]
			line := finite(item.UnitPrice * qty)
			share.RawTotal = finite(share.RawTotal + line)
			share.Orders = append(share.Orders, models.OrderLine{
				Name:      item.DisplayName(),
				Quantity:  qty,
				UnitPrice: item.UnitPrice,
				LineTotal: line,
			})
		}
	}

	for _, share := range s.Shares {
		s.TotalBeforeTax = finite(s.TotalBeforeTax + share.RawTotal)
	}

	if s.TotalBeforeTax > 0 {
		for i := range s.Shares {
			share := &s.Shares[i]
			proportion := share.RawTotal / s.TotalBeforeTax
			withTax := finite(share.RawTotal * (1 + taxRate/100))
			share.Total = finite(withTax + s.RoundOffAmount*proportion)
		}
	}

	for _, share := range s.Shares {
		s.TotalAssigned = finite(s.TotalAssigned + share.Total)
	}
	applyBreakdowns(&s)

	return s
}

// finite returns v, or 0 when v is NaN or infinite.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// roundHalfUp rounds to the nearest whole unit, halves toward +∞.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
