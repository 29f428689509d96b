package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/ledger"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/storage/memory"
)

// performRequest sends a request straight into the router.
func performRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(ledger.NewLedger(memory.NewMemoryLedgerStore()), nil, RouterOptions{})
}

type wireEntry struct {
	ID             string  `json:"id"`
	AccountName    string  `json:"accountName"`
	AmountDue      float64 `json:"amountDue"`
	AmountReceived float64 `json:"amountReceived"`
	Reference      string  `json:"reference"`
	Date           string  `json:"date"`
}

type wireSummary struct {
	AccountName   string  `json:"accountName"`
	TotalDue      float64 `json:"totalDue"`
	TotalReceived float64 `json:"totalReceived"`
	Balance       float64 `json:"balance"`
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func acmeEntries() []map[string]any {
	return []map[string]any{
		{"accountName": "Acme", "amountDue": 1000, "amountReceived": 400, "reference": "INV1", "date": "2024-01-01"},
		{"accountName": "Acme", "amountDue": 500, "amountReceived": 500, "reference": "INV2", "date": "2024-02-01"},
	}
}

func TestAcmeScenario(t *testing.T) {
	r := setupTestServer(t)

	var created []wireEntry
	for _, e := range acmeEntries() {
		rec := performRequest(t, r, http.MethodPost, "/ledger", e)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created = append(created, decodeBody[wireEntry](t, rec))
	}
	assert.NotEmpty(t, created[0].ID)
	assert.NotEqual(t, created[0].ID, created[1].ID)

	rec := performRequest(t, r, http.MethodGet, "/ledger/summary/Acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wireSummary{AccountName: "Acme", TotalDue: 1500, TotalReceived: 900, Balance: 600}, decodeBody[wireSummary](t, rec))

	rec = performRequest(t, r, http.MethodGet, "/ledger", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody[[]wireEntry](t, rec)
	require.Len(t, all, 2)
	assert.Equal(t, wireEntry{ID: created[0].ID, AccountName: "Acme", AmountDue: 1000, AmountReceived: 400, Reference: "INV1", Date: "2024-01-01"}, all[0])
}

func TestListEmptyIsArray(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(t, r, http.MethodGet, "/ledger", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = performRequest(t, r, http.MethodGet, "/ledger/Nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListByAccountExact(t *testing.T) {
	r := setupTestServer(t)
	for _, name := range []string{"Acme Corp", "acme corp", "Globex"} {
		rec := performRequest(t, r, http.MethodPost, "/ledger", map[string]any{
			"accountName": name, "amountDue": 1, "amountReceived": 0, "date": "2024-01-01",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := performRequest(t, r, http.MethodGet, "/ledger/"+url.PathEscape("Acme Corp"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]wireEntry](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme Corp", got[0].AccountName)
}

func TestSummaryUnknownAccount(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(t, r, http.MethodGet, "/ledger/summary/Nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"accountName":"Nobody","totalDue":0,"totalReceived":0,"balance":0}`, rec.Body.String())
}

func TestUpdate(t *testing.T) {
	r := setupTestServer(t)
	rec := performRequest(t, r, http.MethodPost, "/ledger", acmeEntries()[0])
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[wireEntry](t, rec)

	rec = performRequest(t, r, http.MethodPut, "/ledger/"+created.ID, map[string]any{
		"accountName": "Acme", "amountDue": "1200", "amountReceived": "1200", "date": "2024-01-10",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, wireEntry{ID: created.ID, AccountName: "Acme", AmountDue: 1200, AmountReceived: 1200, Date: "2024-01-10"}, decodeBody[wireEntry](t, rec))

	rec = performRequest(t, r, http.MethodGet, "/ledger/summary/Acme", nil)
	assert.Equal(t, float64(0), decodeBody[wireSummary](t, rec).Balance)
}

func TestUpdateNotFound(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(t, r, http.MethodPut, "/ledger/does-not-exist", acmeEntries()[0])
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody[ErrorResponse](t, rec).Error)
}

func TestCreateValidation(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(t, r, http.MethodPost, "/ledger", map[string]any{"amountDue": 1, "date": "2024-01-01"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_parameter", decodeBody[ErrorResponse](t, rec).Error)

	rec = performRequest(t, r, http.MethodPost, "/ledger", `{"accountName":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeBody[ErrorResponse](t, rec).Error)

	rec = performRequest(t, r, http.MethodGet, "/ledger", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBulk(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(t, r, http.MethodPost, "/ledger/bulk", acmeEntries())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, BulkSuccessText, rec.Body.String())
	assert.Equal(t, "2", rec.Header().Get(HeaderInsertedCount))

	rec = performRequest(t, r, http.MethodGet, "/ledger", nil)
	assert.Len(t, decodeBody[[]wireEntry](t, rec), 2)
}

func TestBulkAtomicFailure(t *testing.T) {
	r := setupTestServer(t)

	batch := acmeEntries()
	batch = append(batch, map[string]any{"amountDue": 5, "date": "2024-03-01"}) // no accountName

	rec := performRequest(t, r, http.MethodPost, "/ledger/bulk", batch)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, BulkFailureText, rec.Body.String())

	rec = performRequest(t, r, http.MethodGet, "/ledger", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/ledger", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBulkUnreadableRowFailsBatch(t *testing.T) {
	r := setupTestServer(t)

	body := `[
		{"accountName":"Acme","amountDue":1000,"amountReceived":400,"reference":"INV1","date":"2024-01-01"},
		{"accountName":"Acme","amountDue":"abc","amountReceived":0,"reference":"INV2","date":"2024-02-01"}
	]`
	rec := performRequest(t, r, http.MethodPost, "/ledger/bulk", body)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, BulkFailureText, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	rec = performRequest(t, r, http.MethodGet, "/ledger", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBulkBodyNotArray(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(t, r, http.MethodPost, "/ledger/bulk", `{"accountName":"Acme"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeBody[ErrorResponse](t, rec).Error)
}

func TestCreateWithBlankFormAmounts(t *testing.T) {
	r := setupTestServer(t)

	rec := performRequest(t, r, http.MethodPost, "/ledger",
		`{"accountName":"Acme","amountDue":"","amountReceived":"","reference":"","date":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	got := decodeBody[wireEntry](t, rec)
	assert.NotEmpty(t, got.ID)
	assert.Zero(t, got.AmountDue)
	assert.Zero(t, got.AmountReceived)
}
