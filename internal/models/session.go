package models

// Session is a stored snapshot.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Title is the display name of the session (e.g., "Friday lunch").
	// Auto-generated from the members when left empty.
	Title string

	// Snapshot is the full session state.
	Snapshot Snapshot

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last update.
	UpdatedAt int64
}

// SessionSummary is the listing view of a stored session.
type SessionSummary struct {
	ID          string
	Title       string
	MemberCount int
	ItemCount   int
	Subtotal    float64
	UpdatedAt   int64
}
