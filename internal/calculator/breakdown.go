package calculator

// Breakdown splits a member's total into the lines shown on a payment summary.
type Breakdown struct {
	ItemsTotal float64
	Tax        float64
	RoundOff   float64
}

// applyBreakdowns fills in Breakdown for every share.
//
// The proportions here are recomputed from order-line sums rather than taken
// from the settlement pass, and the tax line subtracts
// round_off × (items / Σtotals) × (grand − calculated). Saved summaries were
// rendered this way, so the figures are kept identical.
func applyBreakdowns(s *Settlement) {
	var allOrders float64
	for _, share := range s.Shares {
		allOrders = finite(allOrders + orderSum(share))
	}

	for i := range s.Shares {
		share := &s.Shares[i]
		items := orderSum(*share)

		var roundOff, taxAdjust float64
		if allOrders > 0 {
			roundOff = s.RoundOffAmount * (items / allOrders)
		}
		if s.TotalAssigned != 0 {
			taxAdjust = s.RoundOffAmount * (items / s.TotalAssigned) * (s.GrandTotal - s.CalculatedTotal)
		}

		share.Breakdown = Breakdown{
			ItemsTotal: items,
			Tax:        finite(share.Total - items - finite(taxAdjust)),
			RoundOff:   finite(roundOff),
		}
	}
}

func orderSum(share MemberShare) float64 {
	var sum float64
	for _, line := range share.Orders {
		sum = finite(sum + line.LineTotal)
	}
	return sum
}
