package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/apperrors"
	"leaguepay/internal/core/logger"
	"leaguepay/internal/core/metrics"
	"leaguepay/internal/core/models"
	"leaguepay/internal/core/repository"
)

type WalletUsecase interface {
	ListWallets(ctx context.Context, memberID uuid.UUID) ([]models.WalletSummary, error)
	ListTransactions(ctx context.Context, memberID, walletID uuid.UUID) ([]models.Transaction, error)
	IssuePayout(ctx context.Context, callerID, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string, timing models.PayoutTiming) (*models.Wallet, error)
	PromotePending(ctx context.Context, callerID, walletID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error)
}

type walletUsecase struct {
	wallets repository.WalletRepository
	leagues repository.LeagueRepository
	log     logger.Logger
}

func NewWalletUsecase(wallets repository.WalletRepository, leagues repository.LeagueRepository, log logger.Logger) WalletUsecase {
	return &walletUsecase{wallets: wallets, leagues: leagues, log: log}
}

func (uc *walletUsecase) ListWallets(ctx context.Context, memberID uuid.UUID) ([]models.WalletSummary, error) {
	wallets, err := uc.wallets.ListByMember(ctx, memberID)
	if err != nil {
		uc.log.Error("Wallet list failed",
			logger.StringField("member_id", memberID.String()),
			logger.ErrorField("error", err))
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return wallets, nil
}

func (uc *walletUsecase) ListTransactions(ctx context.Context, memberID, walletID uuid.UUID) ([]models.Transaction, error) {
	wallet, err := uc.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	// members only see their own ledger
	if wallet.MemberID != memberID {
		return nil, apperrors.ErrWalletNotFound
	}

	transactions, err := uc.wallets.ListTransactions(ctx, walletID)
	if err != nil {
		uc.log.Error("Transaction list failed",
			logger.StringField("wallet_id", walletID.String()),
			logger.ErrorField("error", err))
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// IssuePayout credits a member's wallet on behalf of the league
// commissioner. Immediate payouts land on the available balance, pending
// payouts stay locked until promoted.
func (uc *walletUsecase) IssuePayout(ctx context.Context, callerID, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string, timing models.PayoutTiming) (*models.Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}
	if !timing.Valid() {
		return nil, apperrors.ErrInvalidPayoutType
	}

	league, err := uc.leagues.GetByID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league.CommissionerID != callerID {
		uc.log.Warn("Payout denied for non-commissioner",
			logger.StringField("league_id", leagueID.String()),
			logger.StringField("caller_id", callerID.String()))
		return nil, apperrors.ErrNotCommissioner
	}

	wallet, err := uc.wallets.GetOrCreate(ctx, leagueID, memberID)
	if err != nil {
		return nil, err
	}

	kind := models.EntryCreditAvailable
	if timing == models.PayoutPending {
		kind = models.EntryCreditPending
	}

	wallet, err = uc.wallets.ApplyEntry(ctx, wallet.ID, models.Entry{
		Kind:        kind,
		Amount:      amount,
		SourceType:  models.SourceLeaguePayout,
		Description: reason,
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerEntries.WithLabelValues(string(models.SourceLeaguePayout), string(models.TransactionCredit)).Inc()
	uc.log.Info("Payout issued",
		logger.StringField("league_id", leagueID.String()),
		logger.StringField("member_id", memberID.String()),
		logger.StringField("amount", amount.StringFixedBank(2)),
		logger.StringField("timing", string(timing)),
	)

	return wallet, nil
}

// PromotePending moves pending funds to the available balance. Commissioner
// only: promotion finalizes a previously held payout.
func (uc *walletUsecase) PromotePending(ctx context.Context, callerID, walletID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}

	wallet, err := uc.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	league, err := uc.leagues.GetByID(ctx, wallet.LeagueID)
	if err != nil {
		return nil, err
	}
	if league.CommissionerID != callerID {
		return nil, apperrors.ErrNotCommissioner
	}

	wallet, err = uc.wallets.ApplyEntry(ctx, walletID, models.Entry{
		Kind:        models.EntryPromotePending,
		Amount:      amount,
		SourceType:  models.SourceManualAdjust,
		Description: "pending funds promotion",
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerEntries.WithLabelValues(string(models.SourceManualAdjust), string(models.TransactionCredit)).Inc()

	return wallet, nil
}
