package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/apperrors"
	"leaguepay/internal/core/logger"
	"leaguepay/internal/core/metrics"
	"leaguepay/internal/core/models"
	"leaguepay/internal/core/repository"
)

type WithdrawalUsecase interface {
	Create(ctx context.Context, memberID, walletID uuid.UUID, amount decimal.Decimal, payoutType models.PayoutType) (*models.WithdrawalRequest, error)
	Resolve(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error)
	History(ctx context.Context, memberID uuid.UUID) ([]models.WithdrawalRequest, error)
}

type withdrawalUsecase struct {
	withdrawals repository.WithdrawalRepository
	wallets     repository.WalletRepository
	log         logger.Logger
}

func NewWithdrawalUsecase(withdrawals repository.WithdrawalRepository, wallets repository.WalletRepository, log logger.Logger) WithdrawalUsecase {
	return &withdrawalUsecase{withdrawals: withdrawals, wallets: wallets, log: log}
}

// Create validates the request, computes the speed-tier fee and places the
// gross hold. The fee breakdown goes back to the caller so the boundary can
// show fee/net before the external transfer settles.
func (uc *withdrawalUsecase) Create(ctx context.Context, memberID, walletID uuid.UUID, amount decimal.Decimal, payoutType models.PayoutType) (*models.WithdrawalRequest, error) {
	wallet, err := uc.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if wallet.MemberID != memberID {
		return nil, apperrors.ErrWalletNotFound
	}

	request, err := models.NewWithdrawalRequest(walletID, amount, payoutType)
	if err != nil {
		return nil, err
	}

	// fast pre-check; the authoritative one runs under the wallet row lock
	if amount.GreaterThan(wallet.Available) {
		uc.log.Warn("Insufficient funds for withdrawal",
			logger.StringField("wallet_id", walletID.String()),
			logger.StringField("available", wallet.Available.StringFixedBank(2)),
			logger.StringField("requested", amount.StringFixedBank(2)),
		)
		return nil, apperrors.ErrInsufficientFunds
	}

	request, err = uc.withdrawals.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	metrics.LedgerEntries.WithLabelValues(string(models.SourceWithdrawal), string(models.TransactionDebit)).Inc()
	uc.log.Info("Withdrawal requested",
		logger.StringField("request_id", request.ID.String()),
		logger.StringField("wallet_id", walletID.String()),
		logger.StringField("amount", request.Amount.StringFixedBank(2)),
		logger.StringField("fee", request.FeeAmount.StringFixedBank(2)),
		logger.StringField("net", request.NetAmount.StringFixedBank(2)),
		logger.StringField("payout_type", string(payoutType)),
	)

	return request, nil
}

// Resolve is the asynchronous resolution entry point for the external
// transfer processor. Duplicate notifications for a terminal request are a
// no-op: the caller gets the current state, never a second reversal.
func (uc *withdrawalUsecase) Resolve(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error) {
	if !target.Valid() || target == models.WithdrawalPending {
		return nil, apperrors.ErrInvalidTransition
	}

	request, err := uc.withdrawals.Resolve(ctx, requestID, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyResolved) {
			uc.log.Warn("Duplicate resolution ignored",
				logger.StringField("request_id", requestID.String()),
				logger.StringField("status", string(request.Status)),
			)
			return request, nil
		}
		return nil, fmt.Errorf("resolve withdrawal: %w", err)
	}

	metrics.WithdrawalResolutions.WithLabelValues(string(target)).Inc()
	uc.log.Info("Withdrawal resolved",
		logger.StringField("request_id", requestID.String()),
		logger.StringField("status", string(target)),
	)

	return request, nil
}

func (uc *withdrawalUsecase) History(ctx context.Context, memberID uuid.UUID) ([]models.WithdrawalRequest, error) {
	requests, err := uc.withdrawals.ListByMember(ctx, memberID)
	if err != nil {
		uc.log.Error("Withdrawal history failed",
			logger.StringField("member_id", memberID.String()),
			logger.ErrorField("error", err))
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return requests, nil
}
