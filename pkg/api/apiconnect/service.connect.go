// Package apiconnect wires billsplit.v1.BillService to Connect handlers and
// clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/pkg/api"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "billsplit.v1.BillService"

// Procedure paths of the BillService RPCs.
const (
	BillServiceParseBillProcedure           = "/billsplit.v1.BillService/ParseBill"
	BillServiceCalculateSettlementProcedure = "/billsplit.v1.BillService/CalculateSettlement"
	BillServiceCreateSessionProcedure       = "/billsplit.v1.BillService/CreateSession"
	BillServiceGetSessionProcedure          = "/billsplit.v1.BillService/GetSession"
	BillServiceUpdateSessionProcedure       = "/billsplit.v1.BillService/UpdateSession"
	BillServiceDeleteSessionProcedure       = "/billsplit.v1.BillService/DeleteSession"
	BillServiceListSessionsProcedure        = "/billsplit.v1.BillService/ListSessions"
	BillServiceApplyOperationProcedure      = "/billsplit.v1.BillService/ApplyOperation"
)

// BillServiceHandler is implemented by the server side of BillService.
type BillServiceHandler interface {
	ParseBill(context.Context, *connect.Request[api.ParseBillRequest]) (*connect.Response[api.ParseBillResponse], error)
	CalculateSettlement(context.Context, *connect.Request[api.CalculateSettlementRequest]) (*connect.Response[api.CalculateSettlementResponse], error)
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error)
	UpdateSession(context.Context, *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.UpdateSessionResponse], error)
	DeleteSession(context.Context, *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error)
	ListSessions(context.Context, *connect.Request[api.ListSessionsRequest]) (*connect.Response[api.ListSessionsResponse], error)
	ApplyOperation(context.Context, *connect.Request[api.ApplyOperationRequest]) (*connect.Response[api.ApplyOperationResponse], error)
}

// NewBillServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	handlers := map[string]http.Handler{
		BillServiceParseBillProcedure:           connect.NewUnaryHandler(BillServiceParseBillProcedure, svc.ParseBill, opts...),
		BillServiceCalculateSettlementProcedure: connect.NewUnaryHandler(BillServiceCalculateSettlementProcedure, svc.CalculateSettlement, opts...),
		BillServiceCreateSessionProcedure:       connect.NewUnaryHandler(BillServiceCreateSessionProcedure, svc.CreateSession, opts...),
		BillServiceGetSessionProcedure:          connect.NewUnaryHandler(BillServiceGetSessionProcedure, svc.GetSession, opts...),
		BillServiceUpdateSessionProcedure:       connect.NewUnaryHandler(BillServiceUpdateSessionProcedure, svc.UpdateSession, opts...),
		BillServiceDeleteSessionProcedure:       connect.NewUnaryHandler(BillServiceDeleteSessionProcedure, svc.DeleteSession, opts...),
		BillServiceListSessionsProcedure:        connect.NewUnaryHandler(BillServiceListSessionsProcedure, svc.ListSessions, opts...),
		BillServiceApplyOperationProcedure:      connect.NewUnaryHandler(BillServiceApplyOperationProcedure, svc.ApplyOperation, opts...),
	}

	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// BillServiceClient is a client for BillService.
type BillServiceClient struct {
	parseBill           *connect.Client[api.ParseBillRequest, api.ParseBillResponse]
	calculateSettlement *connect.Client[api.CalculateSettlementRequest, api.CalculateSettlementResponse]
	createSession       *connect.Client[api.CreateSessionRequest, api.CreateSessionResponse]
	getSession          *connect.Client[api.GetSessionRequest, api.GetSessionResponse]
	updateSession       *connect.Client[api.UpdateSessionRequest, api.UpdateSessionResponse]
	deleteSession       *connect.Client[api.DeleteSessionRequest, api.DeleteSessionResponse]
	listSessions        *connect.Client[api.ListSessionsRequest, api.ListSessionsResponse]
	applyOperation      *connect.Client[api.ApplyOperationRequest, api.ApplyOperationResponse]
}

// NewBillServiceClient creates a client for the BillService served at baseURL.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &BillServiceClient{
		parseBill:           connect.NewClient[api.ParseBillRequest, api.ParseBillResponse](httpClient, baseURL+BillServiceParseBillProcedure, opts...),
		calculateSettlement: connect.NewClient[api.CalculateSettlementRequest, api.CalculateSettlementResponse](httpClient, baseURL+BillServiceCalculateSettlementProcedure, opts...),
		createSession:       connect.NewClient[api.CreateSessionRequest, api.CreateSessionResponse](httpClient, baseURL+BillServiceCreateSessionProcedure, opts...),
		getSession:          connect.NewClient[api.GetSessionRequest, api.GetSessionResponse](httpClient, baseURL+BillServiceGetSessionProcedure, opts...),
		updateSession:       connect.NewClient[api.UpdateSessionRequest, api.UpdateSessionResponse](httpClient, baseURL+BillServiceUpdateSessionProcedure, opts...),
		deleteSession:       connect.NewClient[api.DeleteSessionRequest, api.DeleteSessionResponse](httpClient, baseURL+BillServiceDeleteSessionProcedure, opts...),
		listSessions:        connect.NewClient[api.ListSessionsRequest, api.ListSessionsResponse](httpClient, baseURL+BillServiceListSessionsProcedure, opts...),
		applyOperation:      connect.NewClient[api.ApplyOperationRequest, api.ApplyOperationResponse](httpClient, baseURL+BillServiceApplyOperationProcedure, opts...),
	}
}

func (c *BillServiceClient) ParseBill(ctx context.Context, req *connect.Request[api.ParseBillRequest]) (*connect.Response[api.ParseBillResponse], error) {
	return c.parseBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) CalculateSettlement(ctx context.Context, req *connect.Request[api.CalculateSettlementRequest]) (*connect.Response[api.CalculateSettlementResponse], error) {
	return c.calculateSettlement.CallUnary(ctx, req)
}

func (c *BillServiceClient) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *BillServiceClient) UpdateSession(ctx context.Context, req *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.UpdateSessionResponse], error) {
	return c.updateSession.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteSession(ctx context.Context, req *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error) {
	return c.deleteSession.CallUnary(ctx, req)
}

func (c *BillServiceClient) ListSessions(ctx context.Context, req *connect.Request[api.ListSessionsRequest]) (*connect.Response[api.ListSessionsResponse], error) {
	return c.listSessions.CallUnary(ctx, req)
}

func (c *BillServiceClient) ApplyOperation(ctx context.Context, req *connect.Request[api.ApplyOperationRequest]) (*connect.Response[api.ApplyOperationResponse], error) {
	return c.applyOperation.CallUnary(ctx, req)
}
