package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"leaguepay/internal/core/apperrors"
	"leaguepay/internal/core/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

var amountRegexp = regexp.MustCompile(`^\s*\d{1,9}([.,]\d{1,2})?\s*$`)

// parseAmount validates and parses a wire amount: digits with an optional
// comma or dot separator and at most two fraction digits.
func parseAmount(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(amountStr, " ", ""), ",", ".")

	if !amountRegexp.MatchString(cleaned) {
		return decimal.Zero, fmt.Errorf("invalid amount format: %s", cleaned)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not parse amount: %v", err)
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}

	return amount, nil
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal Server Error"}`)) // Fallback response
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithDomainError maps the core error taxonomy onto HTTP statuses.
func respondWithDomainError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidPayoutType),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrInvalidEntry):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		respondWithError(w, http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, apperrors.ErrNotCommissioner):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrWalletNotFound),
		errors.Is(err, apperrors.ErrLeagueNotFound),
		errors.Is(err, apperrors.ErrRequestNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		log.Error("Failed to process request", logger.ErrorField("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to process request")
	}
}
