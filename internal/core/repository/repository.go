package repository

import (
	"context"

	"github.com/google/uuid"

	"leaguepay/internal/core/models"
)

// WalletRepository owns wallet rows and the append-only ledger behind them.
// ApplyEntry is the only write path: one atomic unit of wallet + transaction.
type WalletRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	GetOrCreate(ctx context.Context, leagueID, memberID uuid.UUID) (*models.Wallet, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.WalletSummary, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error)
	ApplyEntry(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.Wallet, error)
}

// WithdrawalRepository owns withdrawal requests and their wallet-coupled
// state transitions.
type WithdrawalRepository interface {
	Create(ctx context.Context, request *models.WithdrawalRequest) (*models.WithdrawalRequest, error)
	Resolve(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (*models.WithdrawalRequest, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.WithdrawalRequest, error)
}

// LeagueRepository reads league settlement configuration.
type LeagueRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.League, error)
}
