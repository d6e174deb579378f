package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/internal/storage/sqlite"
	"github.com/mmynk/billsplit/pkg/api"
	"github.com/mmynk/billsplit/pkg/api/apiconnect"
)

func newTestServer(t *testing.T, rateLimit int) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	static := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(static, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>billsplit</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "app.js"), []byte("console.log(1)"), 0o644))

	store, err := sqlite.New(filepath.Join(dir, "bills.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		StaticPath:         static,
		Currency:           "INR",
		RateLimitPerMinute: rateLimit,
		ShutdownTimeout:    time.Second,
	}
	handler, err := newHandler(cfg, store)
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, 0)

	resp, body := get(t, server.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestStaticFiles(t *testing.T) {
	server := newTestServer(t, 0)

	_, body := get(t, server.URL+"/")
	assert.Contains(t, body, "billsplit")

	_, body = get(t, server.URL+"/app.js")
	assert.Equal(t, "console.log(1)", body)

	// Unknown paths fall back to index.html
	_, body = get(t, server.URL+"/bill/123")
	assert.Contains(t, body, "billsplit")

	resp, _ := get(t, server.URL+"/"+apiconnect.BillServiceName+"/Nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsAfterRPC(t *testing.T) {
	server := newTestServer(t, 0)

	client := apiconnect.NewBillServiceClient(http.DefaultClient, server.URL)
	_, err := client.ParseBill(context.Background(), connect.NewRequest(&api.ParseBillRequest{
		Text: "Coffee 10 20 200",
	}))
	require.NoError(t, err)

	_, body := get(t, server.URL+"/metrics")
	assert.Contains(t, body, `billsplit_rpc_requests_total{code="ok",procedure="/billsplit.v1.BillService/ParseBill"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestPreflight(t *testing.T) {
	server := newTestServer(t, 0)

	req, err := http.NewRequest(http.MethodOptions, server.URL+apiconnect.BillServiceParseBillProcedure, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Connect-Protocol-Version")
}

func TestRateLimit(t *testing.T) {
	server := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		resp, _ := get(t, server.URL+"/healthz")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ := get(t, server.URL+"/healthz")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
