package models

// Transfer represents a payment between members to settle a bill.
type Transfer struct {
	// From is the member who owes money.
	From string `json:"from"`

	// To is the member who paid the bill.
	To string `json:"to"`

	// Amount is the payment amount.
	Amount float64 `json:"amount"`
}
