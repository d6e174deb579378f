package calculator

import (
	"math"

	"github.com/mmynk/billsplit/internal/models"
)

// QuantityTolerance absorbs floating-point drift when comparing assigned and
// purchased quantities.
const QuantityTolerance = 0.01

// Validation reports how much of an item has been assigned.
type Validation struct {
	AssignedQuantity float64
	IsComplete       bool
}

// ItemValidation is a Validation tagged with the item it describes.
type ItemValidation struct {
	ItemID   int
	Name     string
	Required float64
	Validation
}

// Validate sums the quantities assigned to item and reports whether they
// account for the purchased quantity. Members absent from assigned count as 0.
// Under- and over-assignment are informational; Calculate still uses
// whatever partial assignments exist.
func Validate(item models.Item, assigned map[string]float64) Validation {
	var sum float64
	for _, qty := range assigned {
		sum += qty
	}
	return Validation{
		AssignedQuantity: sum,
		IsComplete:       math.Abs(sum-item.Quantity) < QuantityTolerance,
	}
}

// ValidateItems validates every item in order.
func ValidateItems(items []models.Item, assignments models.Assignments) []ItemValidation {
	out := make([]ItemValidation, len(items))
	for i, item := range items {
		out[i] = ItemValidation{
			ItemID:     item.ID,
			Name:       item.DisplayName(),
			Required:   item.Quantity,
			Validation: Validate(item, assignments[item.ID]),
		}
	}
	return out
}
