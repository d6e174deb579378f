package session

import (
	"slices"

	"github.com/mmynk/billsplit/internal/models"
)

// Snapshot exports the session state. The result shares no memory with the
// session. Selections keep the order members were selected in.
func (s *Session) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		Items:           slices.Clone(s.items),
		TaxRate:         s.taxRate,
		Members:         slices.Clone(s.members),
		Assignments:     make(models.Assignments, len(s.assignments)),
		SelectedMembers: make(models.SelectedMembers, len(s.selected)),
		RoundOffTotal:   s.roundOff,
	}
	if snap.Members == nil {
		snap.Members = []string{}
	}
	for id := range s.assignments {
		snap.Assignments[id] = s.Assignment(id)
	}
	for id := range s.selected {
		snap.SelectedMembers[id] = slices.Clone(s.selected[id])
	}
	return snap
}

// FromSnapshot restores a session. Records written by older clients may
// break the session invariants, so restoring also repairs them:
//
//   - blank and duplicate member names are dropped
//   - assignments to unknown items or members, or of zero or less, are dropped
//   - members are selected exactly where they have a quantity
//   - an empty item list gets a placeholder item
//   - negative prices, quantities and tax rates become 0, as do values
//     whose totals overflow
//   - assigned quantities are rounded to two decimals
func FromSnapshot(snap models.Snapshot) *Session {
	s := New()
	s.roundOff = snap.RoundOffTotal
	s.taxRate = max(0, finite(snap.TaxRate))

	if len(snap.Items) > 0 {
		s.items = s.items[:0]
		seen := make(map[int]bool, len(snap.Items))
		for _, it := range snap.Items {
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			s.items = append(s.items, cleanItem(it))
		}
	}

	for _, m := range snap.Members {
		_ = s.AddMember(m)
	}

	// Selection order from the record is kept for members that stay selected.
	for _, id := range sortedKeys(snap.SelectedMembers) {
		for _, m := range snap.SelectedMembers[id] {
			if qty := roundTo(snap.Assignments[id][m], 2); qty > 0 && s.checkTarget(id, m) == nil {
				s.assign(id, m, qty)
			}
		}
	}
	for _, id := range sortedKeys(snap.Assignments) {
		for _, m := range s.members {
			if qty := roundTo(snap.Assignments[id][m], 2); qty > 0 && s.checkTarget(id, m) == nil {
				s.assign(id, m, qty)
			}
		}
	}
	return s
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
