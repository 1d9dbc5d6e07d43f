package handler

import (
	"encoding/json"
	"net/http"

	"github.com/orbitpay/ledger/internal/adapter/http/dto"
	"github.com/orbitpay/ledger/internal/usecase"
)

// RewardHandler handles reward grants.
type RewardHandler struct {
	rewardUC *usecase.RewardUseCase
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(rewardUC *usecase.RewardUseCase) *RewardHandler {
	return &RewardHandler{rewardUC: rewardUC}
}

// Grant credits a reward to the user's spot account. Granting twice with the
// same ref_id returns the original entry.
func (h *RewardHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req dto.GrantRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.rewardUC.Grant(r.Context(), req.ToUseCaseParams())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to grant reward", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
