package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/orbitpay/ledger/internal/adapter/http/dto"
	"github.com/orbitpay/ledger/internal/domain"
	"github.com/orbitpay/ledger/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrDepositNotFound),
		errors.Is(err, domain.ErrWithdrawalNotFound),
		errors.Is(err, domain.ErrSwapNotFound),
		errors.Is(err, usecase.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInsufficientFrozen):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDepositAlreadyProcessed),
		errors.Is(err, domain.ErrWithdrawalAlreadyProcessed),
		errors.Is(err, domain.ErrWithdrawalNotApproved):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrMetadataTooLarge),
		errors.Is(err, domain.ErrSameAccountType),
		errors.Is(err, domain.ErrSameCurrency),
		errors.Is(err, domain.ErrRateUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// pagination reads limit/offset query parameters.
func pagination(r *http.Request) (limit, offset int) {
	return parseIntQuery(r, "limit", usecase.DefaultPageSize), parseIntQuery(r, "offset", 0)
}
