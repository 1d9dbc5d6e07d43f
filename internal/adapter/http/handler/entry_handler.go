package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orbitpay/ledger/internal/adapter/http/dto"
	"github.com/orbitpay/ledger/internal/usecase"
)

// EntryHandler handles ledger entry queries.
type EntryHandler struct {
	entryUC *usecase.EntryUseCase
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC *usecase.EntryUseCase) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByUser lists entries across all accounts of a user, newest first.
func (h *EntryHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	entries, err := h.entryUC.ListByUser(r.Context(), chi.URLParam(r, "userID"), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListByAccount lists entries of a single account, newest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	limit, offset := pagination(r)

	entries, err := h.entryUC.ListByAccount(r.Context(), accountID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
