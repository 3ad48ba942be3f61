package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"leaguepay/internal/core/logger"
	"leaguepay/internal/core/middleware"
	"leaguepay/internal/core/models"
	"leaguepay/internal/core/usecase"
)

type WithdrawalHandler struct {
	usecase usecase.WithdrawalUsecase
	log     logger.Logger
}

func NewWithdrawalHandler(usecase usecase.WithdrawalUsecase, log logger.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{usecase: usecase, log: log}
}

type withdrawalRequestBody struct {
	WalletID   uuid.UUID `json:"walletId"`
	Amount     string    `json:"amount"`
	PayoutType string    `json:"payoutType"`
}

type resolutionRequestBody struct {
	Status string `json:"status"`
}

// Create places a withdrawal request and returns it with the fee breakdown
// so the caller can show fee and net before the transfer settles.
func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.MemberIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req withdrawalRequestBody
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode request body", logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.WalletID == uuid.Nil {
		respondWithError(w, http.StatusBadRequest, "Wallet ID is required")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.log.Warn("Invalid amount", logger.StringField("amount", req.Amount), logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.usecase.Create(r.Context(), memberID, req.WalletID, amount, models.PayoutType(req.PayoutType))
	if err != nil {
		respondWithDomainError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, request)
}

// History returns the caller's withdrawal requests, newest first.
func (h *WithdrawalHandler) History(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.MemberIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requests, err := h.usecase.History(r.Context(), memberID)
	if err != nil {
		respondWithDomainError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, requests)
}

// Resolve is the transfer processor's callback. Repeated notifications for
// a terminal request return the current state with HTTP 200.
func (h *WithdrawalHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(mux.Vars(r)["request_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req resolutionRequestBody
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	request, err := h.usecase.Resolve(r.Context(), requestID, models.WithdrawalStatus(req.Status))
	if err != nil {
		respondWithDomainError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, request)
}
