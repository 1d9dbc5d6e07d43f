package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orbitpay/ledger/internal/adapter/http/dto"
	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/usecase"
)

// AssetsHandler handles account and balance queries.
type AssetsHandler struct {
	assetsUC *usecase.AssetsUseCase
	ledgerUC *usecase.LedgerUseCase
}

// NewAssetsHandler creates a new AssetsHandler.
func NewAssetsHandler(assetsUC *usecase.AssetsUseCase, ledgerUC *usecase.LedgerUseCase) *AssetsHandler {
	return &AssetsHandler{assetsUC: assetsUC, ledgerUC: ledgerUC}
}

func accountKeyFromURL(r *http.Request) domain.AccountKey {
	return domain.AccountKey{
		UserID:   chi.URLParam(r, "userID"),
		Type:     domain.AccountType(chi.URLParam(r, "type")),
		Currency: chi.URLParam(r, "currency"),
	}
}

// GetAccount retrieves a single account by user, type and currency.
func (h *AssetsHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.assetsUC.GetAccount(r.Context(), accountKeyFromURL(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// ListAccounts lists all accounts of a user.
func (h *AssetsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.assetsUC.ListAccounts(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Summary aggregates a user's balances per currency across account types.
func (h *AssetsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetsUC.Summary(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to summarize assets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetsFromUseCase(assets))
}

// Verify checks the stored balance of an account against its entry history.
func (h *AssetsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledgerUC.VerifyAccount(r.Context(), accountKeyFromURL(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to verify account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VerificationFromUseCase(result))
}
