package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orbitpay/ledger/internal/adapter/http/dto"
	"github.com/orbitpay/ledger/internal/usecase"
)

// ConfigHandler exposes system configuration such as swap rates and
// withdrawal fees.
type ConfigHandler struct {
	configUC *usecase.ConfigUseCase
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(configUC *usecase.ConfigUseCase) *ConfigHandler {
	return &ConfigHandler{configUC: configUC}
}

// Get retrieves a configuration value.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing config key", "")
		return
	}

	value, err := h.configUC.Get(r.Context(), key)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get config", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConfigResponse{Key: key, Value: value})
}

// Set stores a configuration value and invalidates its cache entry.
func (h *ConfigHandler) Set(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing config key", "")
		return
	}

	var req dto.SetConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.configUC.Set(r.Context(), key, req.Value); err != nil {
		writeError(w, mapDomainError(err), "failed to set config", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConfigResponse{Key: key, Value: req.Value})
}
