package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orbitpay/ledger/internal/adapter/http/dto"
	"github.com/orbitpay/ledger/internal/usecase"
)

// SwapHandler handles swap-related HTTP requests.
type SwapHandler struct {
	swapUC *usecase.SwapUseCase
}

// NewSwapHandler creates a new SwapHandler.
func NewSwapHandler(swapUC *usecase.SwapUseCase) *SwapHandler {
	return &SwapHandler{swapUC: swapUC}
}

// Quote prices a swap without executing it.
func (h *SwapHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	quote, err := h.swapUC.GetQuote(r.Context(), req.ToUseCaseParams())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to quote swap", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteFromUseCase(quote))
}

// Create executes a swap at the current configured rate.
func (h *SwapHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	swap, err := h.swapUC.Swap(r.Context(), req.ToUseCaseParams())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to execute swap", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SwapFromDomain(swap))
}

// Get retrieves a swap by ID.
func (h *SwapHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing swap ID", "")
		return
	}

	swap, err := h.swapUC.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get swap", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SwapFromDomain(swap))
}

// ListByUser lists swaps of a user.
func (h *SwapHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	swaps, err := h.swapUC.ListByUser(r.Context(), chi.URLParam(r, "userID"), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list swaps", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SwapsFromDomain(swaps))
}
