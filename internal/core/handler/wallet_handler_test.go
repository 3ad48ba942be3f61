package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leaguepay/internal/core/apperrors"
	"leaguepay/internal/core/handler"
	"leaguepay/internal/core/middleware"
	"leaguepay/internal/core/models"
)

func walletRouter(h *handler.WalletHandler) *mux.Router {
	member := middleware.WithMemberIdentity(zap.NewNop())
	router := mux.NewRouter()
	router.Handle("/api/v1/wallets", member(http.HandlerFunc(h.ListWallets))).Methods("GET")
	router.Handle("/api/v1/wallets/{wallet_id}/transactions", member(http.HandlerFunc(h.ListTransactions))).Methods("GET")
	router.Handle("/api/v1/wallets/{wallet_id}/promotion", member(http.HandlerFunc(h.PromotePending))).Methods("POST")
	router.Handle("/api/v1/leagues/{league_id}/payouts", member(http.HandlerFunc(h.IssuePayout))).Methods("POST")
	return router
}

func TestListWallets(t *testing.T) {
	memberID := uuid.New()
	stub := &walletUsecaseStub{
		listWallets: func(ctx context.Context, gotMember uuid.UUID) ([]models.WalletSummary, error) {
			assert.Equal(t, memberID, gotMember)
			return []models.WalletSummary{{LeagueName: "Sunday League"}}, nil
		},
	}
	router := walletRouter(handler.NewWalletHandler(stub, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
	req.Header.Set("X-Member-ID", memberID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sunday League")
}

func TestListWalletsUnauthorized(t *testing.T) {
	router := walletRouter(handler.NewWalletHandler(&walletUsecaseStub{}, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListTransactionsForeignWallet(t *testing.T) {
	stub := &walletUsecaseStub{
		listTransactions: func(ctx context.Context, memberID, walletID uuid.UUID) ([]models.Transaction, error) {
			return nil, apperrors.ErrWalletNotFound
		},
	}
	router := walletRouter(handler.NewWalletHandler(stub, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+uuid.New().String()+"/transactions", nil)
	req.Header.Set("X-Member-ID", uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIssuePayout(t *testing.T) {
	callerID := uuid.New()
	leagueID := uuid.New()
	memberID := uuid.New()

	stub := &walletUsecaseStub{
		issuePayout: func(ctx context.Context, gotCaller, gotLeague, gotMember uuid.UUID, amount decimal.Decimal, reason string, timing models.PayoutTiming) (*models.Wallet, error) {
			assert.Equal(t, callerID, gotCaller)
			assert.Equal(t, leagueID, gotLeague)
			assert.Equal(t, memberID, gotMember)
			assert.True(t, amount.Equal(decimal.RequireFromString("25.50")))
			assert.Equal(t, "week 3 winnings", reason)
			assert.Equal(t, models.PayoutPending, timing)
			return &models.Wallet{ID: uuid.New(), Pending: amount}, nil
		},
	}
	router := walletRouter(handler.NewWalletHandler(stub, zap.NewNop()))

	body := `{"memberId":"` + memberID.String() + `","amount":"25.50","reason":"week 3 winnings","payoutType":"pending"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leagues/"+leagueID.String()+"/payouts", strings.NewReader(body))
	req.Header.Set("X-Member-ID", callerID.String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestIssuePayoutDefaultsToImmediate(t *testing.T) {
	var gotTiming models.PayoutTiming
	stub := &walletUsecaseStub{
		issuePayout: func(ctx context.Context, _, _, _ uuid.UUID, _ decimal.Decimal, _ string, timing models.PayoutTiming) (*models.Wallet, error) {
			gotTiming = timing
			return &models.Wallet{}, nil
		},
	}
	router := walletRouter(handler.NewWalletHandler(stub, zap.NewNop()))

	body := `{"memberId":"` + uuid.New().String() + `","amount":"10.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leagues/"+uuid.New().String()+"/payouts", strings.NewReader(body))
	req.Header.Set("X-Member-ID", uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.PayoutImmediate, gotTiming)
}

func TestIssuePayoutNotCommissioner(t *testing.T) {
	stub := &walletUsecaseStub{
		issuePayout: func(ctx context.Context, _, _, _ uuid.UUID, _ decimal.Decimal, _ string, _ models.PayoutTiming) (*models.Wallet, error) {
			return nil, apperrors.ErrNotCommissioner
		},
	}
	router := walletRouter(handler.NewWalletHandler(stub, zap.NewNop()))

	body := `{"memberId":"` + uuid.New().String() + `","amount":"10.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leagues/"+uuid.New().String()+"/payouts", strings.NewReader(body))
	req.Header.Set("X-Member-ID", uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIssuePayoutBadAmount(t *testing.T) {
	router := walletRouter(handler.NewWalletHandler(&walletUsecaseStub{}, zap.NewNop()))

	for _, amount := range []string{"", "abc", "-5", "10.123"} {
		body := `{"memberId":"` + uuid.New().String() + `","amount":"` + amount + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/leagues/"+uuid.New().String()+"/payouts", strings.NewReader(body))
		req.Header.Set("X-Member-ID", uuid.New().String())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "amount %q", amount)
	}
}

func TestPromotePending(t *testing.T) {
	walletID := uuid.New()
	stub := &walletUsecaseStub{
		promotePending: func(ctx context.Context, callerID, gotWallet uuid.UUID, amount decimal.Decimal) (*models.Wallet, error) {
			assert.Equal(t, walletID, gotWallet)
			assert.True(t, amount.Equal(decimal.RequireFromString("40.00")))
			return &models.Wallet{ID: walletID, Available: amount}, nil
		},
	}
	router := walletRouter(handler.NewWalletHandler(stub, zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/"+walletID.String()+"/promotion", strings.NewReader(`{"amount":"40.00"}`))
	req.Header.Set("X-Member-ID", uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
