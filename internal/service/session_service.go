package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/session"
	"github.com/mmynk/billsplit/pkg/api"
)

var errUnknownOperation = errors.New("unknown operation")

// CreateSession stores a new session. The snapshot is normalized first so
// stored sessions always satisfy the session invariants.
func (s *BillService) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	slog.Info("CreateSession request received",
		"title", req.Msg.Title,
		"members_count", len(req.Msg.Snapshot.Members),
		"items_count", len(req.Msg.Snapshot.Items),
	)

	sess := session.FromSnapshot(req.Msg.Snapshot)
	record := &models.Session{
		Title:    req.Msg.Title,
		Snapshot: sess.Snapshot(),
	}

	// Save to storage (generates ID, title and timestamps)
	if err := s.store.CreateSession(ctx, record); err != nil {
		slog.Error("CreateSession failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Session created", "session_id", record.ID)

	settlement, _ := s.settle(sess)
	return connect.NewResponse(&api.CreateSessionResponse{
		SessionID:  record.ID,
		Title:      record.Title,
		Settlement: settlement,
	}), nil
}

// GetSession retrieves a session and recalculates its settlement.
func (s *BillService) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	record, err := s.store.GetSession(ctx, req.Msg.SessionID)
	if err != nil {
		slog.Error("GetSession failed", "session_id", req.Msg.SessionID, "error", err)
		return nil, toConnectError(err)
	}

	sess := session.FromSnapshot(record.Snapshot)
	record.Snapshot = sess.Snapshot()
	settlement, validations := s.settle(sess)

	return connect.NewResponse(&api.GetSessionResponse{
		Session:     toAPISession(record),
		Settlement:  settlement,
		Validations: validations,
	}), nil
}

// UpdateSession replaces the title and snapshot of a session.
func (s *BillService) UpdateSession(ctx context.Context, req *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.UpdateSessionResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	defer s.lock(req.Msg.SessionID)()

	sess := session.FromSnapshot(req.Msg.Snapshot)
	record := &models.Session{
		ID:       req.Msg.SessionID,
		Title:    req.Msg.Title,
		Snapshot: sess.Snapshot(),
	}
	if err := s.store.UpdateSession(ctx, record); err != nil {
		slog.Error("UpdateSession failed", "session_id", req.Msg.SessionID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Session updated", "session_id", record.ID)

	settlement, _ := s.settle(sess)
	return connect.NewResponse(&api.UpdateSessionResponse{
		Settlement: settlement,
	}), nil
}

// DeleteSession removes a session by ID.
func (s *BillService) DeleteSession(ctx context.Context, req *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	defer s.lock(req.Msg.SessionID)()

	if err := s.store.DeleteSession(ctx, req.Msg.SessionID); err != nil {
		slog.Error("DeleteSession failed", "session_id", req.Msg.SessionID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Session deleted", "session_id", req.Msg.SessionID)

	return connect.NewResponse(&api.DeleteSessionResponse{}), nil
}

// ListSessions returns summaries of all stored sessions.
func (s *BillService) ListSessions(ctx context.Context, req *connect.Request[api.ListSessionsRequest]) (*connect.Response[api.ListSessionsResponse], error) {
	summaries, err := s.store.ListSessions(ctx)
	if err != nil {
		slog.Error("ListSessions failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.SessionSummary, len(summaries))
	for i, sum := range summaries {
		out[i] = &api.SessionSummary{
			ID:          sum.ID,
			Title:       sum.Title,
			MemberCount: int32(sum.MemberCount),
			ItemCount:   int32(sum.ItemCount),
			Subtotal:    sum.Subtotal,
			UpdatedAt:   sum.UpdatedAt,
		}
	}

	return connect.NewResponse(&api.ListSessionsResponse{
		Sessions: out,
	}), nil
}

// ApplyOperation applies one edit to a stored session and saves the result.
// Failed edits leave the stored session unchanged.
func (s *BillService) ApplyOperation(ctx context.Context, req *connect.Request[api.ApplyOperationRequest]) (*connect.Response[api.ApplyOperationResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	defer s.lock(req.Msg.SessionID)()

	record, err := s.store.GetSession(ctx, req.Msg.SessionID)
	if err != nil {
		slog.Error("ApplyOperation: failed to get session", "session_id", req.Msg.SessionID, "error", err)
		return nil, toConnectError(err)
	}

	sess := session.FromSnapshot(record.Snapshot)
	op := req.Msg.Operation
	added, err := applyOperation(sess, op)
	if err != nil {
		slog.Warn("ApplyOperation rejected",
			"session_id", record.ID,
			"operation", op.Type,
			"error", err,
		)
		return nil, toConnectError(err)
	}

	record.Snapshot = sess.Snapshot()
	if err := s.store.UpdateSession(ctx, record); err != nil {
		slog.Error("ApplyOperation: failed to save session", "session_id", record.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Debug("Operation applied", "session_id", record.ID, "operation", op.Type)

	settlement, validations := s.settle(sess)
	return connect.NewResponse(&api.ApplyOperationResponse{
		Snapshot:     record.Snapshot,
		Settlement:   settlement,
		Validations:  validations,
		AddedMembers: added,
	}), nil
}

// applyOperation dispatches op to the session engine.
func applyOperation(sess *session.Session, op api.Operation) ([]string, error) {
	switch op.Type {
	case api.OpAddItem:
		sess.AddItem()
	case api.OpUpdateItem:
		return nil, sess.UpdateItem(op.ItemID, op.Field, op.Value)
	case api.OpRemoveItem:
		return nil, sess.RemoveItem(op.ItemID)
	case api.OpAddMembers:
		return sess.AddMembers(op.Text), nil
	case api.OpRemoveMember:
		return nil, sess.RemoveMember(op.Member)
	case api.OpSelectMember:
		return nil, sess.SelectMember(op.ItemID, op.Member)
	case api.OpDeselectMember:
		return nil, sess.DeselectMember(op.ItemID, op.Member)
	case api.OpToggleMember:
		return nil, sess.ToggleMember(op.ItemID, op.Member)
	case api.OpSetAssignment:
		return nil, sess.SetAssignment(op.ItemID, op.Member, op.Value)
	case api.OpAdjustQuantity:
		return nil, sess.AdjustQuantity(op.ItemID, op.Member, op.Delta)
	case api.OpSetTaxRate:
		sess.SetTaxRate(op.Value)
	case api.OpSetRoundOff:
		sess.SetRoundOff(op.Enabled)
	case api.OpPasteBill:
		_, err := sess.ApplyParse(op.Text)
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownOperation, op.Type)
	}
	return nil, nil
}
