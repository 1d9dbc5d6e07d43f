package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orbitpay/ledger/internal/adapter/http/dto"
	"github.com/orbitpay/ledger/internal/usecase"
)

// WithdrawHandler handles withdrawal-related HTTP requests.
type WithdrawHandler struct {
	withdrawUC *usecase.WithdrawUseCase
}

// NewWithdrawHandler creates a new WithdrawHandler.
func NewWithdrawHandler(withdrawUC *usecase.WithdrawUseCase) *WithdrawHandler {
	return &WithdrawHandler{withdrawUC: withdrawUC}
}

// Apply records a withdrawal request and freezes the requested amount.
func (h *WithdrawHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	withdrawal, err := h.withdrawUC.Apply(r.Context(), req.ToUseCaseParams())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply for withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WithdrawalFromDomain(withdrawal))
}

// Approve moves a pending withdrawal to approved.
func (h *WithdrawHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	withdrawal, err := h.withdrawUC.Approve(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to approve withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// Pay settles an approved withdrawal: the reserved funds leave the ledger.
func (h *WithdrawHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	var req dto.PayWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	withdrawal, err := h.withdrawUC.Pay(r.Context(), id, req.TxID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to pay withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// Reject cancels a pending or approved withdrawal and releases the reserve.
func (h *WithdrawHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	withdrawal, err := h.withdrawUC.Reject(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reject withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// Get retrieves a withdrawal by ID.
func (h *WithdrawHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing withdrawal ID", "")
		return
	}

	withdrawal, err := h.withdrawUC.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get withdrawal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// ListByUser lists withdrawals of a user.
func (h *WithdrawHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	withdrawals, err := h.withdrawUC.ListByUser(r.Context(), chi.URLParam(r, "userID"), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list withdrawals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalsFromDomain(withdrawals))
}
