package models

import (
	"encoding/json"
	"fmt"
)

// Item represents a single line item on a bill.
type Item struct {
	// ID is unique within a session and stable for the item's lifetime.
	ID int `json:"id"`

	// Name is the item description as entered or parsed (e.g., "Coffee").
	// May be empty for placeholder rows.
	Name string `json:"name"`

	// UnitPrice is the price of one unit (non-negative).
	UnitPrice float64 `json:"unitPrice"`

	// Quantity is the number of units purchased.
	Quantity float64 `json:"quantity"`
}

// Total returns UnitPrice × Quantity. It is always derived, never stored.
func (i Item) Total() float64 {
	return i.UnitPrice * i.Quantity
}

// DisplayName returns the item name, or "Item {id}" for unnamed items.
func (i Item) DisplayName() string {
	if i.Name == "" {
		return fmt.Sprintf("Item %d", i.ID)
	}
	return i.Name
}

// MarshalJSON includes the derived total so saved records match the web
// client's format. A stored total is ignored on decode.
func (i Item) MarshalJSON() ([]byte, error) {
	type item Item
	return json.Marshal(struct {
		item
		Total float64 `json:"total"`
	}{item: item(i), Total: i.Total()})
}

// Assignments maps item id → member name → assigned quantity.
// Quantities are always positive; entries that reach zero are deleted.
type Assignments map[int]map[string]float64

// Quantity returns the quantity of itemID assigned to member (0 if none).
func (a Assignments) Quantity(itemID int, member string) float64 {
	return a[itemID][member]
}

// SelectedMembers maps item id → ordered list of member names currently
// active for quantity entry on that item.
type SelectedMembers map[int][]string

// Contains reports whether member is selected on itemID.
func (s SelectedMembers) Contains(itemID int, member string) bool {
	for _, m := range s[itemID] {
		if m == member {
			return true
		}
	}
	return false
}

// OrderLine is one item as it appears in a member's order list.
type OrderLine struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"total"`
}
