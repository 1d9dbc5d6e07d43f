package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orbitpay/ledger/internal/adapter/http/dto"
	"github.com/orbitpay/ledger/internal/usecase"
)

// DepositHandler handles deposit-related HTTP requests.
type DepositHandler struct {
	depositUC *usecase.DepositUseCase
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositUC *usecase.DepositUseCase) *DepositHandler {
	return &DepositHandler{depositUC: depositUC}
}

// Create records a pending deposit.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	deposit, err := h.depositUC.Create(r.Context(), req.ToUseCaseParams())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DepositFromDomain(deposit))
}

// Confirm confirms a pending deposit and credits the user's spot account.
func (h *DepositHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing deposit ID", "")
		return
	}

	deposit, err := h.depositUC.Confirm(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to confirm deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// Reject rejects a pending deposit without touching any balance.
func (h *DepositHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing deposit ID", "")
		return
	}

	deposit, err := h.depositUC.Reject(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reject deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// Get retrieves a deposit by ID.
func (h *DepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing deposit ID", "")
		return
	}

	deposit, err := h.depositUC.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// ListByUser lists deposits of a user.
func (h *DepositHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	deposits, err := h.depositUC.ListByUser(r.Context(), chi.URLParam(r, "userID"), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list deposits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositsFromDomain(deposits))
}
