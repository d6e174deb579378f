package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/billsplit/internal/money"
	"github.com/mmynk/billsplit/internal/parser"
	"github.com/mmynk/billsplit/internal/session"
	"github.com/mmynk/billsplit/internal/storage"
	"github.com/mmynk/billsplit/pkg/api"
	"github.com/mmynk/billsplit/pkg/api/apiconnect"
)

// Ensure BillService implements the Connect handler interface
var _ apiconnect.BillServiceHandler = (*BillService)(nil)

// sessionLockStripes bounds the number of session mutexes.
const sessionLockStripes = 64

// BillService implements the Connect BillService
type BillService struct {
	store    storage.Store
	validate *validator.Validate
	currency string

	// locks serializes read-modify-write cycles on the same session.
	locks [sessionLockStripes]sync.Mutex
}

// NewBillService creates a new BillService with the given storage backend.
// Amounts are formatted in currency (money.DefaultCurrency when empty).
func NewBillService(store storage.Store, currency string) *BillService {
	if !money.Known(currency) {
		currency = money.DefaultCurrency
	}
	return &BillService{
		store:    store,
		validate: validator.New(),
		currency: currency,
	}
}

func (s *BillService) lock(sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%sessionLockStripes]
	mu.Lock()
	return mu.Unlock
}

// validateRequest checks struct tags on a request message.
func (s *BillService) validateRequest(msg any) error {
	if err := s.validate.Struct(msg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("invalid %s: failed '%s' check", fe.Namespace(), fe.Tag()))
		}
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}

// ParseBill parses pasted receipt text into items.
func (s *BillService) ParseBill(ctx context.Context, req *connect.Request[api.ParseBillRequest]) (*connect.Response[api.ParseBillResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	result, err := parser.Parse(req.Msg.Text)
	if err != nil {
		slog.Info("ParseBill found no items", "lines", countLines(req.Msg.Text))
		return nil, toConnectError(err)
	}

	slog.Debug("ParseBill parsed items",
		"items", len(result.Items),
		"tax_found", result.TaxRate != nil,
	)

	return connect.NewResponse(&api.ParseBillResponse{
		Items:   result.Items,
		TaxRate: result.TaxRate,
	}), nil
}

// CalculateSettlement computes the settlement of an unsaved snapshot.
func (s *BillService) CalculateSettlement(ctx context.Context, req *connect.Request[api.CalculateSettlementRequest]) (*connect.Response[api.CalculateSettlementResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	sess := session.FromSnapshot(req.Msg.Snapshot)
	currency := s.currency
	if money.Known(req.Msg.Currency) {
		currency = req.Msg.Currency
	}

	settlement := sess.Settle()
	slog.Debug("Settlement calculated",
		"members", len(settlement.Shares),
		"grand_total", settlement.GrandTotal,
		"round_off", settlement.RoundOffAmount,
	)

	return connect.NewResponse(&api.CalculateSettlementResponse{
		Settlement:  toAPISettlement(settlement, currency),
		Validations: toAPIValidations(sess.Validations()),
	}), nil
}

func (s *BillService) settle(sess *session.Session) (*api.Settlement, []*api.ItemValidation) {
	return toAPISettlement(sess.Settle(), s.currency), toAPIValidations(sess.Validations())
}

func countLines(text string) int {
	n := 1
	for _, r := range text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// toConnectError maps engine and storage errors to Connect codes.
func toConnectError(err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, session.ErrItemNotFound),
		errors.Is(err, session.ErrMemberNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, parser.ErrNoItems),
		errors.Is(err, session.ErrLastItem):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, session.ErrDuplicateMember):
		code = connect.CodeAlreadyExists
	case errors.Is(err, session.ErrUnknownField),
		errors.Is(err, session.ErrEmptyMemberName),
		errors.Is(err, errUnknownOperation):
		code = connect.CodeInvalidArgument
	default:
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}
