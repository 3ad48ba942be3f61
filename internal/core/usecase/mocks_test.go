package usecase_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/models"
)

// Hand-rolled stubs with overridable func fields. Only the methods a test
// cares about need to be set.

type walletRepoStub struct {
	getByID          func(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	getOrCreate      func(ctx context.Context, leagueID, memberID uuid.UUID) (*models.Wallet, error)
	listByMember     func(ctx context.Context, memberID uuid.UUID) ([]models.WalletSummary, error)
	listTransactions func(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error)
	applyEntry       func(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.Wallet, error)
}

func (s *walletRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	return s.getByID(ctx, id)
}

func (s *walletRepoStub) GetOrCreate(ctx context.Context, leagueID, memberID uuid.UUID) (*models.Wallet, error) {
	return s.getOrCreate(ctx, leagueID, memberID)
}

func (s *walletRepoStub) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.WalletSummary, error) {
	return s.listByMember(ctx, memberID)
}

func (s *walletRepoStub) ListTransactions(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error) {
	return s.listTransactions(ctx, walletID)
}

func (s *walletRepoStub) ApplyEntry(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.Wallet, error) {
	return s.applyEntry(ctx, walletID, entry)
}

type withdrawalRepoStub struct {
	create       func(ctx context.Context, request *models.WithdrawalRequest) (*models.WithdrawalRequest, error)
	resolve      func(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error)
	getByID      func(ctx context.Context, requestID uuid.UUID) (*models.WithdrawalRequest, error)
	listByMember func(ctx context.Context, memberID uuid.UUID) ([]models.WithdrawalRequest, error)
}

func (s *withdrawalRepoStub) Create(ctx context.Context, request *models.WithdrawalRequest) (*models.WithdrawalRequest, error) {
	return s.create(ctx, request)
}

func (s *withdrawalRepoStub) Resolve(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error) {
	return s.resolve(ctx, requestID, target)
}

func (s *withdrawalRepoStub) GetByID(ctx context.Context, requestID uuid.UUID) (*models.WithdrawalRequest, error) {
	return s.getByID(ctx, requestID)
}

func (s *withdrawalRepoStub) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.WithdrawalRequest, error) {
	return s.listByMember(ctx, memberID)
}

type leagueRepoStub struct {
	getByID func(ctx context.Context, id uuid.UUID) (*models.League, error)
}

func (s *leagueRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.League, error) {
	return s.getByID(ctx, id)
}

type paymentStub struct {
	requestPayment func(ctx context.Context, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string) (string, error)
}

func (s *paymentStub) RequestPayment(ctx context.Context, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string) (string, error) {
	return s.requestPayment(ctx, leagueID, memberID, amount, reason)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
