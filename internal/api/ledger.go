package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/bookkeeping-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

// Bulk endpoint response texts.
const (
	BulkSuccessText = "Bulk insert successful"
	BulkFailureText = "Error inserting bulk entries"

	HeaderInsertedCount = "X-Inserted-Count"
)

const maxBodyBytes = 10 << 20

// LedgerService is the part of ledger.Ledger the HTTP layer needs.
type LedgerService interface {
	CreateEntry(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error)
	UpdateEntry(ctx context.Context, id string, entry models.LedgerEntry) (models.LedgerEntry, error)
	ListEntries(ctx context.Context) ([]models.LedgerEntry, error)
	ListEntriesByAccount(ctx context.Context, accountName string) ([]models.LedgerEntry, error)
	CreateEntries(ctx context.Context, entries []models.LedgerEntry) (int, error)
	Summarize(ctx context.Context, accountName string) (models.Summary, error)
}

// LedgerHandler handles the /ledger endpoints.
type LedgerHandler struct {
	svc    LedgerService
	logger *zap.Logger
}

func NewLedgerHandler(svc LedgerService, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{svc: svc, logger: logger}
}

// Create handles POST /ledger.
func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.LedgerEntry
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.svc.CreateEntry(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create entry")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Update handles PUT /ledger/{id}.
func (h *LedgerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	var req models.LedgerEntry
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.svc.UpdateEntry(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update entry")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// List handles GET /ledger.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListEntries(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListByAccount handles GET /ledger/{account}.
func (h *LedgerHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListEntriesByAccount(r.Context(), pathParam(r, "account"))
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to list entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Summary handles GET /ledger/summary/{account}.
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summarize(r.Context(), pathParam(r, "account"))
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to summarize account")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// CreateBulk handles POST /ledger/bulk. Failures carry no per-row detail.
// A body that is not a JSON array is a 400; a row that cannot be read as an
// entry fails the batch like any other invalid row.
func (h *LedgerHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var rows []json.RawMessage
	if !h.decode(w, r, &rows) {
		return
	}

	fail := func(err error) {
		h.logger.Error("bulk insert failed",
			zap.Int("entries", len(rows)),
			zap.Error(err),
		)
		writeText(w, http.StatusInternalServerError, BulkFailureText)
	}

	req := make([]models.LedgerEntry, len(rows))
	for i, row := range rows {
		if err := json.Unmarshal(row, &req[i]); err != nil {
			fail(fmt.Errorf("entry %d: %w", i, err))
			return
		}
	}

	n, err := h.svc.CreateEntries(r.Context(), req)
	if err != nil {
		fail(err)
		return
	}

	w.Header().Set(HeaderInsertedCount, strconv.Itoa(n))
	writeText(w, http.StatusOK, BulkSuccessText)
}

func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
		return false
	}
	return true
}

func (h *LedgerHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, description string) {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "Ledger entry not found")
	case errors.Is(err, models.ErrInvalidEntry):
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
	default:
		h.logger.Error(description,
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "server_error", description)
	}
}

// pathParam returns the decoded value of a route parameter.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
