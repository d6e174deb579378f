// Package api defines the request and response messages of the
// billsplit.v1.BillService RPC API. Messages are plain structs encoded as
// JSON on the wire.
package api

import "github.com/mmynk/billsplit/internal/models"

// ParseBillRequest carries pasted receipt text.
type ParseBillRequest struct {
	Text string `json:"text" validate:"required,max=65536"`
}

// ParseBillResponse lists the recognized items and the tax rate, if any.
type ParseBillResponse struct {
	Items   []models.Item `json:"items"`
	TaxRate *float64      `json:"taxRate,omitempty"`
}

// CalculateSettlementRequest asks for a settlement of an unsaved snapshot.
type CalculateSettlementRequest struct {
	Snapshot models.Snapshot `json:"snapshot"`
	Currency string          `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

// CalculateSettlementResponse is the settlement and per-item validation.
type CalculateSettlementResponse struct {
	Settlement  *Settlement       `json:"settlement"`
	Validations []*ItemValidation `json:"validations"`
}

// Settlement is the bill-level result plus one share per member.
type Settlement struct {
	Currency        string         `json:"currency"`
	Subtotal        float64        `json:"subtotal"`
	TaxRate         float64        `json:"taxRate"`
	TaxAmount       float64        `json:"taxAmount"`
	CalculatedTotal float64        `json:"calculatedTotal"`
	GrandTotal      float64        `json:"grandTotal"`
	RoundOffAmount  float64        `json:"roundOffAmount"`
	TotalAssigned   float64        `json:"totalAssigned"`
	Members         []*MemberShare `json:"members"`
	DisplayTotal    string         `json:"displayTotal"`
}

// MemberShare is one member's part of the bill.
type MemberShare struct {
	Member       string             `json:"member"`
	Total        float64            `json:"total"`
	ItemsTotal   float64            `json:"itemsTotal"`
	Tax          float64            `json:"tax"`
	RoundOff     float64            `json:"roundOff"`
	Orders       []models.OrderLine `json:"orders"`
	DisplayTotal string             `json:"displayTotal"`
}

// ItemValidation reports whether an item's quantity is fully assigned.
type ItemValidation struct {
	ItemID           int     `json:"itemId"`
	Name             string  `json:"name"`
	Required         float64 `json:"required"`
	AssignedQuantity float64 `json:"assignedQuantity"`
	IsComplete       bool    `json:"isComplete"`
}

// Session is a stored session.
type Session struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Snapshot  models.Snapshot `json:"snapshot"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

// SessionSummary is a session as shown in listings.
type SessionSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	MemberCount int32   `json:"memberCount"`
	ItemCount   int32   `json:"itemCount"`
	Subtotal    float64 `json:"subtotal"`
	UpdatedAt   int64   `json:"updatedAt"`
}

type CreateSessionRequest struct {
	Title    string          `json:"title,omitempty" validate:"max=120"`
	Snapshot models.Snapshot `json:"snapshot"`
}

type CreateSessionResponse struct {
	SessionID  string      `json:"sessionId"`
	Title      string      `json:"title"`
	Settlement *Settlement `json:"settlement"`
}

type GetSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

func (r *GetSessionRequest) GetSessionID() string { return r.SessionID }

type GetSessionResponse struct {
	Session     *Session          `json:"session"`
	Settlement  *Settlement       `json:"settlement"`
	Validations []*ItemValidation `json:"validations"`
}

type UpdateSessionRequest struct {
	SessionID string          `json:"sessionId" validate:"required"`
	Title     string          `json:"title,omitempty" validate:"max=120"`
	Snapshot  models.Snapshot `json:"snapshot"`
}

func (r *UpdateSessionRequest) GetSessionID() string { return r.SessionID }

type UpdateSessionResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type DeleteSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

func (r *DeleteSessionRequest) GetSessionID() string { return r.SessionID }

type DeleteSessionResponse struct{}

type ListSessionsRequest struct{}

type ListSessionsResponse struct {
	Sessions []*SessionSummary `json:"sessions"`
}

// Operation types accepted by ApplyOperation.
const (
	OpAddItem        = "addItem"
	OpUpdateItem     = "updateItem"
	OpRemoveItem     = "removeItem"
	OpAddMembers     = "addMembers"
	OpRemoveMember   = "removeMember"
	OpSelectMember   = "selectMember"
	OpDeselectMember = "deselectMember"
	OpToggleMember   = "toggleMember"
	OpSetAssignment  = "setAssignment"
	OpAdjustQuantity = "adjustQuantity"
	OpSetTaxRate     = "setTaxRate"
	OpSetRoundOff    = "setRoundOff"
	OpPasteBill      = "pasteBill"
)

// Operation is one edit to a stored session. Which fields are read depends
// on Type.
type Operation struct {
	Type    string  `json:"type" validate:"required,oneof=addItem updateItem removeItem addMembers removeMember selectMember deselectMember toggleMember setAssignment adjustQuantity setTaxRate setRoundOff pasteBill"`
	ItemID  int     `json:"itemId,omitempty"`
	Field   string  `json:"field,omitempty"`
	Value   string  `json:"value,omitempty"`
	Member  string  `json:"member,omitempty"`
	Delta   float64 `json:"delta,omitempty"`
	Enabled bool    `json:"enabled,omitempty"`
	Text    string  `json:"text,omitempty" validate:"max=65536"`
}

type ApplyOperationRequest struct {
	SessionID string    `json:"sessionId" validate:"required"`
	Operation Operation `json:"operation"`
}

func (r *ApplyOperationRequest) GetSessionID() string { return r.SessionID }

type ApplyOperationResponse struct {
	Snapshot    models.Snapshot   `json:"snapshot"`
	Settlement  *Settlement       `json:"settlement"`
	Validations []*ItemValidation `json:"validations"`

	// AddedMembers lists the names added by an addMembers operation.
	AddedMembers []string `json:"addedMembers,omitempty"`
}
