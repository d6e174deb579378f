package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage/sqlite"
	"github.com/mmynk/billsplit/pkg/api"
	"github.com/mmynk/billsplit/pkg/api/apiconnect"
)

// setupTestServer serves a BillService backed by a temporary database.
func setupTestServer(t *testing.T) (*apiconnect.BillServiceClient, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	path, handler := apiconnect.NewBillServiceHandler(NewBillService(store, "INR"))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	client := apiconnect.NewBillServiceClient(http.DefaultClient, server.URL)

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return client, cleanup
}

// coffeeSnapshot is 10 coffees at 20 each, 5% tax, A drinks 6 and B drinks 4.
func coffeeSnapshot() models.Snapshot {
	return models.Snapshot{
		Items:           []models.Item{{ID: 1, Name: "Coffee", UnitPrice: 20, Quantity: 10}},
		TaxRate:         5,
		Members:         []string{"A", "B"},
		Assignments:     models.Assignments{1: {"A": 6, "B": 4}},
		SelectedMembers: models.SelectedMembers{1: {"A", "B"}},
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	require.Error(t, err)
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr), "expected connect error, got %v", err)
	assert.Equal(t, want, connectErr.Code(), "error: %v", err)
}

func memberTotals(s *api.Settlement) map[string]float64 {
	totals := make(map[string]float64, len(s.Members))
	for _, m := range s.Members {
		totals[m.Member] = m.Total
	}
	return totals
}

func TestParseBill(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.ParseBill(context.Background(), connect.NewRequest(&api.ParseBillRequest{
		Text: "Burger 2 150.00 300.00\nFries 3 x 50 = 150\nService tax 5%\n",
	}))
	require.NoError(t, err)

	require.Len(t, resp.Msg.Items, 2)
	assert.Equal(t, models.Item{ID: 1, Name: "Burger", UnitPrice: 150, Quantity: 2}, resp.Msg.Items[0])
	assert.Equal(t, models.Item{ID: 2, Name: "Fries", UnitPrice: 50, Quantity: 3}, resp.Msg.Items[1])
	require.NotNil(t, resp.Msg.TaxRate)
	assert.Equal(t, 5.0, *resp.Msg.TaxRate)
}

func TestParseBill_NoItems(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := client.ParseBill(context.Background(), connect.NewRequest(&api.ParseBillRequest{
		Text: "Thank you for visiting",
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)
}

func TestParseBill_EmptyText(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := client.ParseBill(context.Background(), connect.NewRequest(&api.ParseBillRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCalculateSettlement(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.CalculateSettlement(context.Background(), connect.NewRequest(&api.CalculateSettlementRequest{
		Snapshot: coffeeSnapshot(),
	}))
	require.NoError(t, err)

	s := resp.Msg.Settlement
	assert.Equal(t, "INR", s.Currency)
	assert.InDelta(t, 200, s.Subtotal, 1e-9)
	assert.InDelta(t, 10, s.TaxAmount, 1e-9)
	assert.InDelta(t, 210, s.GrandTotal, 1e-9)
	assert.Equal(t, "₹210.00", s.DisplayTotal)

	require.Len(t, s.Members, 2)
	assert.Equal(t, "A", s.Members[0].Member)
	assert.InDelta(t, 126, s.Members[0].Total, 1e-9)
	assert.InDelta(t, 120, s.Members[0].ItemsTotal, 1e-9)
	assert.InDelta(t, 6, s.Members[0].Tax, 1e-9)
	assert.Equal(t, "₹126.00", s.Members[0].DisplayTotal)
	require.Len(t, s.Members[0].Orders, 1)
	assert.Equal(t, "Coffee", s.Members[0].Orders[0].Name)
	assert.InDelta(t, 84, s.Members[1].Total, 1e-9)

	require.Len(t, resp.Msg.Validations, 1)
	assert.True(t, resp.Msg.Validations[0].IsComplete)
}

func TestCalculateSettlement_Currency(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.CalculateSettlement(context.Background(), connect.NewRequest(&api.CalculateSettlementRequest{
		Snapshot: coffeeSnapshot(),
		Currency: "USD",
	}))
	require.NoError(t, err)
	assert.Equal(t, "USD", resp.Msg.Settlement.Currency)
	assert.Equal(t, "$210.00", resp.Msg.Settlement.DisplayTotal)

	_, err = client.CalculateSettlement(context.Background(), connect.NewRequest(&api.CalculateSettlementRequest{
		Snapshot: coffeeSnapshot(),
		Currency: "dollars",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCalculateSettlement_RepairsSnapshot(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	snap := coffeeSnapshot()
	// C is not a member, so the assignment is ignored.
	snap.Assignments[1]["C"] = 5

	resp, err := client.CalculateSettlement(context.Background(), connect.NewRequest(&api.CalculateSettlementRequest{
		Snapshot: snap,
	}))
	require.NoError(t, err)

	totals := memberTotals(resp.Msg.Settlement)
	assert.Len(t, totals, 2)
	assert.InDelta(t, 210, resp.Msg.Settlement.TotalAssigned, 1e-9)
}

func TestCalculateSettlement_RoundOff(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	snap := coffeeSnapshot()
	snap.Items[0].UnitPrice = 20.33
	snap.RoundOffTotal = true

	resp, err := client.CalculateSettlement(context.Background(), connect.NewRequest(&api.CalculateSettlementRequest{
		Snapshot: snap,
	}))
	require.NoError(t, err)

	s := resp.Msg.Settlement
	assert.Equal(t, 213.0, s.GrandTotal)
	assert.InDelta(t, -0.465, s.RoundOffAmount, 1e-9)
	totals := memberTotals(s)
	assert.InDelta(t, 213, totals["A"]+totals["B"], 1e-9)
}

func TestSessionLifecycle(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created, err := client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{
		Snapshot: coffeeSnapshot(),
	}))
	require.NoError(t, err)
	require.NotEmpty(t, created.Msg.SessionID)
	assert.Equal(t, "Split with A, B", created.Msg.Title)
	assert.InDelta(t, 210, created.Msg.Settlement.GrandTotal, 1e-9)

	got, err := client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{
		SessionID: created.Msg.SessionID,
	}))
	require.NoError(t, err)
	assert.Equal(t, created.Msg.SessionID, got.Msg.Session.ID)
	assert.Equal(t, coffeeSnapshot(), got.Msg.Session.Snapshot)
	assert.InDelta(t, 126, memberTotals(got.Msg.Settlement)["A"], 1e-9)

	snap := coffeeSnapshot()
	snap.TaxRate = 10
	updated, err := client.UpdateSession(ctx, connect.NewRequest(&api.UpdateSessionRequest{
		SessionID: created.Msg.SessionID,
		Title:     "Friday coffee",
		Snapshot:  snap,
	}))
	require.NoError(t, err)
	assert.InDelta(t, 220, updated.Msg.Settlement.GrandTotal, 1e-9)

	list, err := client.ListSessions(ctx, connect.NewRequest(&api.ListSessionsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Sessions, 1)
	assert.Equal(t, "Friday coffee", list.Msg.Sessions[0].Title)
	assert.Equal(t, int32(2), list.Msg.Sessions[0].MemberCount)
	assert.Equal(t, int32(1), list.Msg.Sessions[0].ItemCount)
	assert.InDelta(t, 200, list.Msg.Sessions[0].Subtotal, 1e-9)

	_, err = client.DeleteSession(ctx, connect.NewRequest(&api.DeleteSessionRequest{
		SessionID: created.Msg.SessionID,
	}))
	require.NoError(t, err)

	_, err = client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{
		SessionID: created.Msg.SessionID,
	}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.DeleteSession(ctx, connect.NewRequest(&api.DeleteSessionRequest{
		SessionID: created.Msg.SessionID,
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestGetSession_MissingID(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := client.GetSession(context.Background(), connect.NewRequest(&api.GetSessionRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestApplyOperation(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created, err := client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{
		Title: "Lunch",
	}))
	require.NoError(t, err)
	id := created.Msg.SessionID

	apply := func(op api.Operation) *api.ApplyOperationResponse {
		t.Helper()
		resp, err := client.ApplyOperation(ctx, connect.NewRequest(&api.ApplyOperationRequest{
			SessionID: id,
			Operation: op,
		}))
		require.NoError(t, err, "operation %s", op.Type)
		return resp.Msg
	}

	resp := apply(api.Operation{Type: api.OpPasteBill, Text: "Coffee 10 20 200\nTax 5%"})
	require.Len(t, resp.Snapshot.Items, 1)
	assert.Equal(t, 5.0, resp.Snapshot.TaxRate)

	resp = apply(api.Operation{Type: api.OpAddMembers, Text: "A, B\nA"})
	assert.Equal(t, []string{"A", "B"}, resp.AddedMembers)
	assert.Equal(t, []string{"A", "B"}, resp.Snapshot.Members)

	apply(api.Operation{Type: api.OpSelectMember, ItemID: 1, Member: "A"})
	resp = apply(api.Operation{Type: api.OpSetAssignment, ItemID: 1, Member: "A", Value: "6"})
	assert.False(t, resp.Validations[0].IsComplete)
	assert.InDelta(t, 6, resp.Validations[0].AssignedQuantity, 1e-9)

	apply(api.Operation{Type: api.OpToggleMember, ItemID: 1, Member: "B"})
	resp = apply(api.Operation{Type: api.OpAdjustQuantity, ItemID: 1, Member: "B", Delta: 3})
	assert.True(t, resp.Validations[0].IsComplete)
	assert.InDelta(t, 126, memberTotals(resp.Settlement)["A"], 1e-9)
	assert.InDelta(t, 84, memberTotals(resp.Settlement)["B"], 1e-9)

	// The edits are persisted.
	got, err := client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: id}))
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Msg.Session.Title)
	assert.Equal(t, map[string]float64{"A": 6, "B": 4}, got.Msg.Session.Snapshot.Assignments[1])

	resp = apply(api.Operation{Type: api.OpRemoveMember, Member: "B"})
	assert.Equal(t, []string{"A"}, resp.Snapshot.Members)
	assert.Equal(t, []string{"A"}, resp.Snapshot.SelectedMembers[1])
	assert.False(t, resp.Validations[0].IsComplete)

	resp = apply(api.Operation{Type: api.OpSetRoundOff, Enabled: true})
	assert.True(t, resp.Snapshot.RoundOffTotal)

	resp = apply(api.Operation{Type: api.OpAddItem})
	require.Len(t, resp.Snapshot.Items, 2)
	assert.Equal(t, 2, resp.Snapshot.Items[1].ID)

	resp = apply(api.Operation{Type: api.OpUpdateItem, ItemID: 2, Field: "name", Value: "Tea"})
	assert.Equal(t, "Tea", resp.Snapshot.Items[1].Name)

	resp = apply(api.Operation{Type: api.OpRemoveItem, ItemID: 1})
	require.Len(t, resp.Snapshot.Items, 1)
	assert.Empty(t, resp.Snapshot.Assignments)

	resp = apply(api.Operation{Type: api.OpSetTaxRate, Value: "12.5"})
	assert.Equal(t, 12.5, resp.Snapshot.TaxRate)
}

func TestApplyOperation_Errors(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created, err := client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{
		Snapshot: coffeeSnapshot(),
	}))
	require.NoError(t, err)
	id := created.Msg.SessionID

	tests := []struct {
		name string
		op   api.Operation
		code connect.Code
	}{
		{"unknown type", api.Operation{Type: "explode"}, connect.CodeInvalidArgument},
		{"missing type", api.Operation{}, connect.CodeInvalidArgument},
		{"unknown item", api.Operation{Type: api.OpRemoveItem, ItemID: 99}, connect.CodeNotFound},
		{"last item", api.Operation{Type: api.OpRemoveItem, ItemID: 1}, connect.CodeFailedPrecondition},
		{"unknown member", api.Operation{Type: api.OpSelectMember, ItemID: 1, Member: "Z"}, connect.CodeNotFound},
		{"unknown field", api.Operation{Type: api.OpUpdateItem, ItemID: 1, Field: "colour", Value: "red"}, connect.CodeInvalidArgument},
		{"paste without items", api.Operation{Type: api.OpPasteBill, Text: "nothing here"}, connect.CodeFailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ApplyOperation(ctx, connect.NewRequest(&api.ApplyOperationRequest{
				SessionID: id,
				Operation: tt.op,
			}))
			assertCode(t, err, tt.code)
		})
	}

	// Rejected operations leave the stored session untouched.
	got, err := client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: id}))
	require.NoError(t, err)
	assert.Equal(t, coffeeSnapshot(), got.Msg.Session.Snapshot)

	_, err = client.ApplyOperation(ctx, connect.NewRequest(&api.ApplyOperationRequest{
		SessionID: "missing",
		Operation: api.Operation{Type: api.OpAddItem},
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestApplyOperation_HugeNumbers(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created, err := client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{
		Snapshot: coffeeSnapshot(),
	}))
	require.NoError(t, err)

	ops := []api.Operation{
		{Type: api.OpSetAssignment, ItemID: 1, Member: "A", Value: "1e307"},
		{Type: api.OpUpdateItem, ItemID: 1, Field: "unitPrice", Value: "1e308"},
		{Type: api.OpUpdateItem, ItemID: 1, Field: "quantity", Value: "1e308"},
		{Type: api.OpSetTaxRate, Value: "1e308"},
		{Type: api.OpSetRoundOff, Enabled: true},
	}
	for _, op := range ops {
		resp, err := client.ApplyOperation(ctx, connect.NewRequest(&api.ApplyOperationRequest{
			SessionID: created.Msg.SessionID,
			Operation: op,
		}))
		require.NoError(t, err, "operation %s %s", op.Type, op.Value)
		assert.NotEmpty(t, resp.Msg.Settlement.DisplayTotal)
	}

	got, err := client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: created.Msg.SessionID}))
	require.NoError(t, err)
	assert.NotEmpty(t, got.Msg.Settlement.DisplayTotal)
}

func TestApplyOperation_Concurrent(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	created, err := client.CreateSession(ctx, connect.NewRequest(&api.CreateSessionRequest{}))
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.ApplyOperation(ctx, connect.NewRequest(&api.ApplyOperationRequest{
				SessionID: created.Msg.SessionID,
				Operation: api.Operation{Type: api.OpAddItem},
			}))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := client.GetSession(ctx, connect.NewRequest(&api.GetSessionRequest{SessionID: created.Msg.SessionID}))
	require.NoError(t, err)
	assert.Len(t, got.Msg.Session.Snapshot.Items, n+1)
}
