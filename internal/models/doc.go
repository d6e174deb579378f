// Package models defines the core domain models for the bill splitter.
//
// # Models
//
//   - Item: one purchased line on the bill (name, unit price, quantity)
//   - Assignments: how many units of each item each member consumes
//   - SelectedMembers: members currently active for quantity entry on an item
//   - Snapshot: the complete, JSON-serializable state of a splitting session
//   - Session: a stored snapshot with its identifier and timestamps
//   - Transfer: a payment from one member to another after settlement
//
// Members are identified by display name (case-sensitive) and kept in insertion
// order; items are identified by a small integer id that is stable for the
// item's lifetime.
//
// # Snapshot format
//
// The snapshot field names (items, taxRate, members, assignments,
// selectedMembers, roundOffTotal) are the storage format of the web client's
// saved sessions and must not be renamed. Map keys for item ids are encoded as
// JSON strings ("1", "2", ...).
package models
