package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"leaguepay/internal/core/logger"
	"leaguepay/internal/core/models"
	"leaguepay/internal/core/usecase"
)

type SettlementHandler struct {
	usecase usecase.SettlementUsecase
	log     logger.Logger
}

func NewSettlementHandler(usecase usecase.SettlementUsecase, log logger.Logger) *SettlementHandler {
	return &SettlementHandler{usecase: usecase, log: log}
}

type settlementRequestBody struct {
	Scores []models.MemberScore `json:"scores"`
}

// ProcessWeeklySync is the score-sync completion callback. Per-member
// failures come back as warnings next to an otherwise successful result.
func (h *SettlementHandler) ProcessWeeklySync(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	leagueID, err := uuid.Parse(vars["league_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid league id")
		return
	}

	week, err := strconv.Atoi(vars["week"])
	if err != nil || week < 1 {
		respondWithError(w, http.StatusBadRequest, "invalid week number")
		return
	}

	var req settlementRequestBody
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode request body", logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	result, err := h.usecase.ProcessWeeklySync(r.Context(), leagueID, week, req.Scores)
	if err != nil {
		respondWithDomainError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
