// Package session holds the mutable state of one bill-splitting session and
// is the only place that state is changed.
//
// A member has a non-zero assignment on an item if and only if the member is
// selected on that item. Every operation that touches one of the two maps
// updates the other in the same call.
package session

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/parser"
)

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrLastItem        = errors.New("at least one item must remain")
	ErrUnknownField    = errors.New("unknown item field")
	ErrEmptyMemberName = errors.New("member name is empty")
	ErrDuplicateMember = errors.New("member already exists")
	ErrMemberNotFound  = errors.New("member not found")
)

// Editable item fields.
const (
	FieldName      = "name"
	FieldUnitPrice = "unitPrice"
	FieldQuantity  = "quantity"
)

// Session is the state of one bill-splitting session. It is not safe for
// concurrent use.
type Session struct {
	items       []models.Item
	members     []string
	assignments models.Assignments
	selected    models.SelectedMembers
	taxRate     float64
	roundOff    bool
}

// New returns a session with a single empty item and no members.
func New() *Session {
	return &Session{
		items:       []models.Item{placeholder(1)},
		assignments: models.Assignments{},
		selected:    models.SelectedMembers{},
	}
}

func placeholder(id int) models.Item {
	return models.Item{ID: id, Quantity: 1}
}

// Items returns a copy of the items in order.
func (s *Session) Items() []models.Item {
	return slices.Clone(s.items)
}

// Members returns a copy of the members in insertion order.
func (s *Session) Members() []string {
	return slices.Clone(s.members)
}

// Assignment returns a copy of member → quantity for itemID.
func (s *Session) Assignment(itemID int) map[string]float64 {
	out := make(map[string]float64, len(s.assignments[itemID]))
	for m, q := range s.assignments[itemID] {
		out[m] = q
	}
	return out
}

// Selected returns the members selected on itemID, in member order.
func (s *Session) Selected(itemID int) []string {
	var out []string
	for _, m := range s.members {
		if s.selected.Contains(itemID, m) {
			out = append(out, m)
		}
	}
	return out
}

// TaxRate returns the tax percentage.
func (s *Session) TaxRate() float64 { return s.taxRate }

// RoundOff reports whether the grand total is rounded to a whole unit.
func (s *Session) RoundOff() bool { return s.roundOff }

func (s *Session) itemIndex(id int) int {
	return slices.IndexFunc(s.items, func(it models.Item) bool { return it.ID == id })
}

func (s *Session) hasMember(name string) bool {
	return slices.Contains(s.members, name)
}

// AddItem appends an empty item and returns it.
func (s *Session) AddItem() models.Item {
	maxID := 0
	for _, it := range s.items {
		maxID = max(maxID, it.ID)
	}
	item := placeholder(maxID + 1)
	s.items = append(s.items, item)
	return item
}

// UpdateItem sets one field of an item from form input. Prices and
// quantities that cannot be read become 0; negative values are clamped to 0.
// A value whose line total would overflow is stored as 0.
func (s *Session) UpdateItem(id int, field, value string) error {
	i := s.itemIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	item := &s.items[i]
	switch field {
	case FieldName:
		item.Name = value
	case FieldUnitPrice:
		item.UnitPrice = max(0, ParseNumber(value))
		if math.IsInf(item.Total(), 0) {
			item.UnitPrice = 0
		}
	case FieldQuantity:
		item.Quantity = max(0, ParseNumber(value))
		if math.IsInf(item.Total(), 0) {
			item.Quantity = 0
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// RemoveItem deletes an item and everything assigned to it. The last
// remaining item cannot be removed.
func (s *Session) RemoveItem(id int) error {
	i := s.itemIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	if len(s.items) <= 1 {
		return ErrLastItem
	}
	s.items = slices.Delete(s.items, i, i+1)
	delete(s.assignments, id)
	delete(s.selected, id)
	return nil
}

// AddMember adds a member by name. Surrounding whitespace is trimmed; names
// are case-sensitive.
func (s *Session) AddMember(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyMemberName
	}
	if s.hasMember(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateMember, name)
	}
	s.members = append(s.members, name)
	return nil
}

// AddMembers adds every name in a comma, tab or newline separated list,
// skipping blanks and names already present. It returns the names added.
func (s *Session) AddMembers(text string) []string {
	var added []string
	for _, name := range SplitNames(text) {
		if s.AddMember(name) == nil {
			added = append(added, name)
		}
	}
	return added
}

// SplitNames splits a pasted member list on commas, tabs and newlines.
func SplitNames(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	var names []string
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// RemoveMember removes a member and all of their assignments and selections.
func (s *Session) RemoveMember(name string) error {
	i := slices.Index(s.members, name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	}
	s.members = slices.Delete(s.members, i, i+1)
	for id := range s.assignments {
		s.unassign(id, name)
	}
	for id := range s.selected {
		s.unassign(id, name)
	}
	return nil
}

func (s *Session) checkTarget(itemID int, member string) error {
	if s.itemIndex(itemID) < 0 {
		return fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
	}
	if !s.hasMember(member) {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, member)
	}
	return nil
}

// SelectMember activates member on an item with a quantity of 1. Selecting
// an already selected member keeps the current quantity.
func (s *Session) SelectMember(itemID int, member string) error {
	if err := s.checkTarget(itemID, member); err != nil {
		return err
	}
	if s.selected.Contains(itemID, member) {
		return nil
	}
	s.assign(itemID, member, 1)
	return nil
}

// DeselectMember deactivates member on an item and drops their quantity.
func (s *Session) DeselectMember(itemID int, member string) error {
	if err := s.checkTarget(itemID, member); err != nil {
		return err
	}
	s.unassign(itemID, member)
	return nil
}

// ToggleMember selects an unselected member or deselects a selected one.
func (s *Session) ToggleMember(itemID int, member string) error {
	if s.selected.Contains(itemID, member) {
		return s.DeselectMember(itemID, member)
	}
	return s.SelectMember(itemID, member)
}

// SetAssignment sets member's quantity of an item from form input, rounded
// to two decimals. A quantity of zero or less (or unreadable input)
// deselects the member.
func (s *Session) SetAssignment(itemID int, member, value string) error {
	if err := s.checkTarget(itemID, member); err != nil {
		return err
	}
	qty := roundTo(ParseNumber(value), 2)
	if qty <= 0 {
		s.unassign(itemID, member)
		return nil
	}
	s.assign(itemID, member, qty)
	return nil
}

// AdjustQuantity changes member's quantity by delta, rounded to one decimal
// and floored at zero. Reaching zero deselects the member.
func (s *Session) AdjustQuantity(itemID int, member string, delta float64) error {
	if err := s.checkTarget(itemID, member); err != nil {
		return err
	}
	qty := max(0, roundTo(s.assignments.Quantity(itemID, member)+delta, 1))
	if qty == 0 {
		s.unassign(itemID, member)
		return nil
	}
	s.assign(itemID, member, qty)
	return nil
}

// assign stores a positive quantity and selects the member.
func (s *Session) assign(itemID int, member string, qty float64) {
	if s.assignments[itemID] == nil {
		s.assignments[itemID] = make(map[string]float64)
	}
	s.assignments[itemID][member] = qty
	if !s.selected.Contains(itemID, member) {
		s.selected[itemID] = append(s.selected[itemID], member)
	}
}

// unassign removes the quantity and the selection together.
func (s *Session) unassign(itemID int, member string) {
	if a, ok := s.assignments[itemID]; ok {
		delete(a, member)
		if len(a) == 0 {
			delete(s.assignments, itemID)
		}
	}
	if sel, ok := s.selected[itemID]; ok {
		sel = slices.DeleteFunc(sel, func(m string) bool { return m == member })
		if len(sel) == 0 {
			delete(s.selected, itemID)
		} else {
			s.selected[itemID] = sel
		}
	}
}

// SetTaxRate sets the tax percentage from form input. Unreadable or
// negative input is 0.
func (s *Session) SetTaxRate(value string) {
	s.taxRate = max(0, ParseNumber(value))
}

// SetRoundOff enables or disables rounding the grand total.
func (s *Session) SetRoundOff(enabled bool) {
	s.roundOff = enabled
}

// ApplyParse parses pasted bill text. On success the items are replaced, the
// tax rate is set if the text had one, and all assignments are cleared since
// they referred to the old items. On parser.ErrNoItems nothing changes.
func (s *Session) ApplyParse(text string) (parser.Result, error) {
	res, err := parser.Parse(text)
	if err != nil {
		return parser.Result{}, err
	}
	s.items = slices.Clone(res.Items)
	if res.TaxRate != nil {
		s.taxRate = *res.TaxRate
	}
	s.assignments = models.Assignments{}
	s.selected = models.SelectedMembers{}
	return res, nil
}

// Validate reports whether an item's assignments cover its quantity.
func (s *Session) Validate(itemID int) (calculator.Validation, error) {
	i := s.itemIndex(itemID)
	if i < 0 {
		return calculator.Validation{}, fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
	}
	return calculator.Validate(s.items[i], s.assignments[itemID]), nil
}

// Validations validates every item in order.
func (s *Session) Validations() []calculator.ItemValidation {
	return calculator.ValidateItems(s.items, s.assignments)
}

// Settle computes every member's share of the bill.
func (s *Session) Settle() calculator.Settlement {
	return calculator.Calculate(calculator.Input{
		Items:       s.items,
		Assignments: s.assignments,
		Members:     s.members,
		TaxRate:     s.taxRate,
		RoundOff:    s.roundOff,
	})
}
