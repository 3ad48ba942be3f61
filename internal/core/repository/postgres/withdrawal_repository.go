package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/apperrors"
	"leaguepay/internal/core/logger"
	"leaguepay/internal/core/models"
	"leaguepay/internal/core/repository"
)

const withdrawalColumns = `id, wallet_id, amount, payout_type, fee_amount, net_amount,
	status, requested_at, resolved_at`

type postgresWithdrawalRepo struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewPostgresWithdrawalRepo(db *sqlx.DB, log logger.Logger) repository.WithdrawalRepository {
	return &postgresWithdrawalRepo{
		db:  db,
		log: log,
	}
}

// Create places the optimistic hold: under the wallet row lock it debits the
// gross amount, inserts the pending request and the withdrawal ledger row,
// all in one transaction. Insufficient funds leave no rows behind.
func (r *postgresWithdrawalRepo) Create(ctx context.Context, request *models.WithdrawalRequest) (*models.WithdrawalRequest, error) {
	var isCommitted bool
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}

	defer func() {
		if err != nil && !isCommitted {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Error("Transaction rollback failed",
					logger.ErrorField("error", rbErr))
			}
		}
	}()

	wallet, err := lockWallet(ctx, tx, request.WalletID)
	if err != nil {
		return nil, err
	}

	entry := models.Entry{
		Kind:        models.EntryDebitWithdrawal,
		Amount:      request.Amount,
		SourceType:  models.SourceWithdrawal,
		Description: fmt.Sprintf("%s withdrawal %s", request.PayoutType, request.ID),
	}
	preAvailable := wallet.Available
	if err = wallet.Apply(entry); err != nil {
		return nil, err
	}

	if err = persistWallet(ctx, tx, wallet); err != nil {
		return nil, err
	}

	for _, row := range ledgerRows(wallet, entry, preAvailable) {
		if err = insertTransaction(ctx, tx, &row); err != nil {
			return nil, err
		}
	}

	insert := `
		INSERT INTO withdrawal_requests
			(id, wallet_id, amount, payout_type, fee_amount, net_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING requested_at
	`
	err = tx.GetContext(ctx, &request.RequestedAt, insert,
		request.ID,
		request.WalletID,
		request.Amount,
		request.PayoutType,
		request.FeeAmount,
		request.NetAmount,
		request.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("create withdrawal request: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}

	isCommitted = true
	return request, nil
}

// Resolve drives the request state machine from an external transfer
// confirmation. A failed transfer performs the compensating credit of the
// gross hold; requests already in a terminal state yield ErrAlreadyResolved
// so the reversal can never run twice.
func (r *postgresWithdrawalRepo) Resolve(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus) (*models.WithdrawalRequest, error) {
	var isCommitted bool
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}

	defer func() {
		if err != nil && !isCommitted {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Error("Transaction rollback failed",
					logger.ErrorField("error", rbErr))
			}
		}
	}()

	var request models.WithdrawalRequest
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`
	err = tx.GetContext(ctx, &request, query, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error locking withdrawal request: %w", err)
	}

	if request.Status.Terminal() {
		err = apperrors.ErrAlreadyResolved
		return &request, err
	}
	if !request.Status.CanTransition(target) {
		err = apperrors.ErrInvalidTransition
		return nil, err
	}

	switch target {
	case models.WithdrawalFailed:
		err = r.reverseHold(ctx, tx, &request)
	case models.WithdrawalCompleted:
		err = r.recordFeeMemo(ctx, tx, &request)
	}
	if err != nil {
		return nil, err
	}

	update := `
		UPDATE withdrawal_requests
		SET status = $1, resolved_at = CASE WHEN $2 THEN NOW() ELSE resolved_at END
		WHERE id = $3
		RETURNING ` + withdrawalColumns
	err = tx.GetContext(ctx, &request, update, target, target.Terminal(), requestID)
	if err != nil {
		return nil, fmt.Errorf("update withdrawal request: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}

	isCommitted = true
	return &request, nil
}

// reverseHold credits the gross amount back to the wallet with a reversing
// ledger row. Runs inside the resolve transaction, after the request row
// lock, so it executes at most once per request.
func (r *postgresWithdrawalRepo) reverseHold(ctx context.Context, tx *sqlx.Tx, request *models.WithdrawalRequest) error {
	wallet, err := lockWallet(ctx, tx, request.WalletID)
	if err != nil {
		return err
	}

	entry := models.Entry{
		Kind:        models.EntryCreditReversal,
		Amount:      request.Amount,
		SourceType:  models.SourceWithdrawal,
		Description: fmt.Sprintf("reversal of withdrawal %s", request.ID),
	}
	preAvailable := wallet.Available
	if err := wallet.Apply(entry); err != nil {
		return err
	}

	if err := persistWallet(ctx, tx, wallet); err != nil {
		return err
	}

	for _, row := range ledgerRows(wallet, entry, preAvailable) {
		if err := insertTransaction(ctx, tx, &row); err != nil {
			return err
		}
	}

	return nil
}

// recordFeeMemo writes the informational fee row for a completed instant
// withdrawal. No balance moves: the fee was part of the gross hold.
func (r *postgresWithdrawalRepo) recordFeeMemo(ctx context.Context, tx *sqlx.Tx, request *models.WithdrawalRequest) error {
	if request.FeeAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	wallet, err := lockWallet(ctx, tx, request.WalletID)
	if err != nil {
		return err
	}

	entry := models.Entry{
		Kind:        models.EntryFeeMemo,
		Amount:      request.FeeAmount,
		SourceType:  models.SourceFee,
		Description: fmt.Sprintf("instant payout fee for withdrawal %s", request.ID),
	}
	preAvailable := wallet.Available
	if err := wallet.Apply(entry); err != nil {
		return err
	}

	for _, row := range ledgerRows(wallet, entry, preAvailable) {
		if err := insertTransaction(ctx, tx, &row); err != nil {
			return err
		}
	}

	return nil
}

func (r *postgresWithdrawalRepo) GetByID(ctx context.Context, requestID uuid.UUID) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`
	err := r.db.GetContext(ctx, &request, query, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error getting withdrawal request: %w", err)
	}

	return &request, nil
}

func (r *postgresWithdrawalRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.WithdrawalRequest, error) {
	requests := make([]models.WithdrawalRequest, 0)
	query := `
		SELECT wr.id, wr.wallet_id, wr.amount, wr.payout_type, wr.fee_amount,
			wr.net_amount, wr.status, wr.requested_at, wr.resolved_at
		FROM withdrawal_requests wr
		JOIN wallets w ON w.id = wr.wallet_id
		WHERE w.member_id = $1
		ORDER BY wr.requested_at DESC
	`
	if err := r.db.SelectContext(ctx, &requests, query, memberID); err != nil {
		return nil, fmt.Errorf("error listing withdrawal requests: %w", err)
	}

	return requests, nil
}
