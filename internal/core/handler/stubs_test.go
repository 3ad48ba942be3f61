package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/models"
)

type walletUsecaseStub struct {
	listWallets      func(ctx context.Context, memberID uuid.UUID) ([]models.WalletSummary, error)
	listTransactions func(ctx context.Context, memberID, walletID uuid.UUID) ([]models.Transaction, error)
	issuePayout      func(ctx context.Context, callerID, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string, timing models.PayoutTiming) (*models.Wallet, error)
	promotePending   func(ctx context.Context, callerID, walletID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error)
}

func (s *walletUsecaseStub) ListWallets(ctx context.Context, memberID uuid.UUID) ([]models.WalletSummary, error) {
	return s.listWallets(ctx, memberID)
}

func (s *walletUsecaseStub) ListTransactions(ctx context.Context, memberID, walletID uuid.UUID) ([]models.Transaction, error) {
	return s.listTransactions(ctx, memberID, walletID)
}

func (s *walletUsecaseStub) IssuePayout(ctx context.Context, callerID, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string, timing models.PayoutTiming) (*models.Wallet, error) {
	return s.issuePayout(ctx, callerID, leagueID, memberID, amount, reason, timing)
}

func (s *walletUsecaseStub) PromotePending(ctx context.Context, callerID, walletID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error) {
	return s.promotePending(ctx, callerID, walletID, amount)
}

type withdrawalUsecaseStub struct {
	create  func(ctx context.Context, memberID, walletID uuid.UUID, amount decimal.Decimal, payoutType models.PayoutType) (*models.WithdrawalRequest, error)
	resolve func(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error)
	history func(ctx context.Context, memberID uuid.UUID) ([]models.WithdrawalRequest, error)
}

func (s *withdrawalUsecaseStub) Create(ctx context.Context, memberID, walletID uuid.UUID, amount decimal.Decimal, payoutType models.PayoutType) (*models.WithdrawalRequest, error) {
	return s.create(ctx, memberID, walletID, amount, payoutType)
}

func (s *withdrawalUsecaseStub) Resolve(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error) {
	return s.resolve(ctx, requestID, target)
}

func (s *withdrawalUsecaseStub) History(ctx context.Context, memberID uuid.UUID) ([]models.WithdrawalRequest, error) {
	return s.history(ctx, memberID)
}

type settlementUsecaseStub struct {
	processWeeklySync func(ctx context.Context, leagueID uuid.UUID, week int, scores []models.MemberScore) (*models.SettlementResult, error)
}

func (s *settlementUsecaseStub) ProcessWeeklySync(ctx context.Context, leagueID uuid.UUID, week int, scores []models.MemberScore) (*models.SettlementResult, error) {
	return s.processWeeklySync(ctx, leagueID, week, scores)
}
