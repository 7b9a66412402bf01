package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/wallet-ledger/internal/ledger"
	"github.com/sheikh-saqib/wallet-ledger/internal/models"
	"github.com/sheikh-saqib/wallet-ledger/internal/query"
	"github.com/sheikh-saqib/wallet-ledger/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	engine := ledger.NewEngine(store, nil)
	srv := httptest.NewServer(NewServer(engine, query.NewService(store)).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func register(t *testing.T, srv *httptest.Server, name string) string {
	t.Helper()
	resp, body := doJSON(t, srv, http.MethodPost, "/accounts", map[string]string{"display_name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}

func TestRegisterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	register(t, srv, "alice")

	resp, body := doJSON(t, srv, http.MethodPost, "/accounts", map[string]string{"display_name": "alice"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, models.ErrDuplicateName.Error(), body["error"])

	resp, _ = doJSON(t, srv, http.MethodPost, "/accounts", map[string]string{"display_name": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDepositAndBalanceEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := register(t, srv, "alice")

	resp, body := doJSON(t, srv, http.MethodPost, "/accounts/"+id+"/deposit", map[string]any{"amount": "100"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "100", fmt.Sprint(body["balance"]))

	resp, body = doJSON(t, srv, http.MethodGet, "/accounts/"+id+"/balance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "100", fmt.Sprint(body["balance"]))

	resp, _ = doJSON(t, srv, http.MethodPost, "/accounts/"+id+"/deposit", map[string]any{"amount": "-1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodGet, "/accounts/unknown/balance", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransferEndpoint(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")

	resp, _ := doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/deposit", map[string]any{"amount": "100"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/transfer", map[string]any{"to": "bob", "amount": "40"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "60", fmt.Sprint(body["balance"]))

	resp, body = doJSON(t, srv, http.MethodGet, "/accounts/"+bob+"/balance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "40", fmt.Sprint(body["balance"]))

	// Typed failures map onto distinct statuses.
	resp, _ = doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/transfer", map[string]any{"to": "bob", "amount": "9999"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/transfer", map[string]any{"to": "ghost", "amount": "1"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/transfer", map[string]any{"to": "alice", "amount": "1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistoryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	register(t, srv, "bob")

	doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/deposit", map[string]any{"amount": "100"})
	doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/transfer", map[string]any{"to": "bob", "amount": "40"})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/accounts/"+alice+"/history", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []models.TransactionRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 2)
	require.Equal(t, models.KindDeposit, records[0].Kind)
	require.Equal(t, models.KindTransferOut, records[1].Kind)
}

func TestSpendingEndpoint(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	register(t, srv, "bob")

	doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/deposit", map[string]any{"amount": "100"})
	doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/transfer", map[string]any{"to": "bob", "amount": "10"})
	doJSON(t, srv, http.MethodPost, "/accounts/"+alice+"/transfer", map[string]any{"to": "bob", "amount": "30"})

	resp, body := doJSON(t, srv, http.MethodGet, "/accounts/"+alice+"/spending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	series, ok := body["series"].([]any)
	require.True(t, ok)
	require.Len(t, series, 1) // both transfers land on today's date

	summary, ok := body["summary"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "40", fmt.Sprint(summary["total_spent"]))
	require.Equal(t, float64(2), summary["transfers"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	id := register(t, srv, "alice")

	resp, _ := doJSON(t, srv, http.MethodGet, "/accounts", nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodGet, "/accounts/"+id+"/deposit", nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/accounts/"+id+"/unknown", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
