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

type WalletHandler struct {
	usecase usecase.WalletUsecase
	log     logger.Logger
}

func NewWalletHandler(usecase usecase.WalletUsecase, log logger.Logger) *WalletHandler {
	return &WalletHandler{usecase: usecase, log: log}
}

type payoutRequest struct {
	MemberID   uuid.UUID `json:"memberId"`
	Amount     string    `json:"amount"`
	Reason     string    `json:"reason"`
	PayoutType string    `json:"payoutType"`
}

type promotionRequest struct {
	Amount string `json:"amount"`
}

// ListWallets returns the caller's wallet snapshots joined with league names.
func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.MemberIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	wallets, err := h.usecase.ListWallets(r.Context(), memberID)
	if err != nil {
		respondWithDomainError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, wallets)
}

// ListTransactions returns the caller's ledger rows for one wallet, oldest
// first.
func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	memberID, ok := middleware.MemberIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	walletID, err := uuid.Parse(mux.Vars(r)["wallet_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid wallet id")
		return
	}

	transactions, err := h.usecase.ListTransactions(r.Context(), memberID, walletID)
	if err != nil {
		respondWithDomainError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, transactions)
}

// IssuePayout credits a member's wallet; commissioner only.
func (h *WalletHandler) IssuePayout(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.MemberIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	leagueID, err := uuid.Parse(mux.Vars(r)["league_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid league id")
		return
	}

	var req payoutRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode request body", logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.MemberID == uuid.Nil {
		respondWithError(w, http.StatusBadRequest, "member id is required")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.log.Warn("Invalid amount", logger.StringField("amount", req.Amount), logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	timing := models.PayoutTiming(req.PayoutType)
	if req.PayoutType == "" {
		timing = models.PayoutImmediate
	}

	wallet, err := h.usecase.IssuePayout(r.Context(), callerID, leagueID, req.MemberID, amount, req.Reason, timing)
	if err != nil {
		respondWithDomainError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, wallet)
}

// PromotePending finalizes pending funds into the available balance;
// commissioner only.
func (h *WalletHandler) PromotePending(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.MemberIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	walletID, err := uuid.Parse(mux.Vars(r)["wallet_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid wallet id")
		return
	}

	var req promotionRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	wallet, err := h.usecase.PromotePending(r.Context(), callerID, walletID, amount)
	if err != nil {
		respondWithDomainError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, wallet)
}
