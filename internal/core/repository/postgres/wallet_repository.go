package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/apperrors"
	"leaguepay/internal/core/logger"
	"leaguepay/internal/core/models"
	"leaguepay/internal/core/repository"
)

const maxTxAttempts = 3

const walletColumns = `id, league_id, member_id, available_balance, pending_balance,
	total_earnings, total_withdrawn, created_at, updated_at`

type postgresWalletRepo struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewPostgresWalletRepo(db *sqlx.DB, log logger.Logger) repository.WalletRepository {
	return &postgresWalletRepo{
		db:  db,
		log: log,
	}
}

func (r *postgresWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	err := r.db.GetContext(ctx, &wallet, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("error getting wallet: %w", err)
	}

	return &wallet, nil
}

// GetOrCreate returns the wallet for (league, member), creating a zeroed one
// on first use. Wallets are never deleted.
func (r *postgresWalletRepo) GetOrCreate(ctx context.Context, leagueID, memberID uuid.UUID) (*models.Wallet, error) {
	insert := `
		INSERT INTO wallets (id, league_id, member_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (league_id, member_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, uuid.New(), leagueID, memberID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, apperrors.ErrLeagueNotFound
		}
		return nil, fmt.Errorf("error creating wallet: %w", err)
	}

	var wallet models.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE league_id = $1 AND member_id = $2`
	if err := r.db.GetContext(ctx, &wallet, query, leagueID, memberID); err != nil {
		return nil, fmt.Errorf("error getting wallet: %w", err)
	}

	return &wallet, nil
}

func (r *postgresWalletRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.WalletSummary, error) {
	wallets := make([]models.WalletSummary, 0)
	query := `
		SELECT w.id, w.league_id, w.member_id, w.available_balance, w.pending_balance,
			w.total_earnings, w.total_withdrawn, w.created_at, w.updated_at,
			l.name AS league_name
		FROM wallets w
		JOIN leagues l ON l.id = w.league_id
		WHERE w.member_id = $1
		ORDER BY l.name, w.created_at
	`
	if err := r.db.SelectContext(ctx, &wallets, query, memberID); err != nil {
		return nil, fmt.Errorf("error listing wallets: %w", err)
	}

	return wallets, nil
}

func (r *postgresWalletRepo) ListTransactions(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error) {
	transactions := make([]models.Transaction, 0)
	query := `
		SELECT id, wallet_id, type, bucket, amount, source_type, description,
			balance_after, seq, created_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY seq
	`
	if err := r.db.SelectContext(ctx, &transactions, query, walletID); err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}

	return transactions, nil
}

// ApplyEntry appends one ledger entry and returns the updated wallet
// snapshot. Wallet row and transaction rows are written in one transaction;
// serialization failures and deadlocks are retried.
func (r *postgresWalletRepo) ApplyEntry(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.Wallet, error) {
	var wallet *models.Wallet
	var err error

	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		wallet, err = r.applyEntryTx(ctx, walletID, entry)
		if err == nil || !isRetryableError(err) {
			return wallet, err
		}
		r.log.Warn("Retrying ledger transaction",
			logger.StringField("wallet_id", walletID.String()),
			logger.IntField("attempt", attempt),
			logger.ErrorField("error", err),
		)
	}

	return nil, fmt.Errorf("ledger transaction failed after %d attempts: %w", maxTxAttempts, err)
}

func (r *postgresWalletRepo) applyEntryTx(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.Wallet, error) {
	var isCommitted bool
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.log.Error("Error beginning transaction",
			logger.ErrorField("error", err))
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}

	defer func() {
		if err != nil && !isCommitted {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Error("Transaction rollback failed",
					logger.ErrorField("error", rbErr))
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	wallet, err := lockWallet(ctx, tx, walletID)
	if err != nil {
		return nil, err
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

	if err = tx.Commit(); err != nil {
		r.log.Error("Error committing transaction",
			logger.ErrorField("error", err))
		return nil, fmt.Errorf("commit failed: %w", err)
	}

	isCommitted = true
	return wallet, nil
}

// lockWallet reads the wallet row under FOR UPDATE so that concurrent
// operations on the same wallet serialize. Distinct wallets never block
// each other.
func lockWallet(ctx context.Context, tx *sqlx.Tx, walletID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	err := tx.GetContext(ctx, &wallet, query, walletID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, fmt.Errorf("error locking wallet: %w", err)
	}

	return &wallet, nil
}

func persistWallet(ctx context.Context, tx *sqlx.Tx, wallet *models.Wallet) error {
	query := `
		UPDATE wallets
		SET available_balance = $1, pending_balance = $2, total_earnings = $3,
			total_withdrawn = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := tx.ExecContext(ctx, query,
		wallet.Available,
		wallet.Pending,
		wallet.TotalEarnings,
		wallet.TotalWithdrawn,
		wallet.ID,
	)
	if err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}

	return nil
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, transaction *models.Transaction) error {
	const query = `
		INSERT INTO transactions
			(id, wallet_id, type, bucket, amount, source_type, description, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		transaction.ID,
		transaction.WalletID,
		transaction.Type,
		transaction.Bucket,
		transaction.Amount,
		transaction.SourceType,
		transaction.Description,
		transaction.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	return nil
}

// ledgerRows maps one entry onto its immutable ledger rows. A pending
// promotion becomes a pending debit plus an available credit so that every
// row moves exactly one balance.
func ledgerRows(wallet *models.Wallet, entry models.Entry, preAvailable decimal.Decimal) []models.Transaction {
	row := models.Transaction{
		ID:           uuid.New(),
		WalletID:     wallet.ID,
		Amount:       entry.Amount,
		SourceType:   entry.SourceType,
		Description:  entry.Description,
		BalanceAfter: wallet.Available,
	}

	switch entry.Kind {
	case models.EntryCreditAvailable, models.EntryCreditReversal:
		row.Type = models.TransactionCredit
		row.Bucket = models.BucketAvailable
	case models.EntryCreditPending:
		row.Type = models.TransactionCredit
		row.Bucket = models.BucketPending
	case models.EntryDebitWithdrawal:
		row.Type = models.TransactionDebit
		row.Bucket = models.BucketAvailable
	case models.EntryFeeMemo:
		row.Type = models.TransactionDebit
		row.Bucket = models.BucketNone
	case models.EntryPromotePending:
		debit := row
		debit.ID = uuid.New()
		debit.Type = models.TransactionDebit
		debit.Bucket = models.BucketPending
		debit.BalanceAfter = preAvailable

		credit := row
		credit.Type = models.TransactionCredit
		credit.Bucket = models.BucketAvailable
		return []models.Transaction{debit, credit}
	}

	return []models.Transaction{row}
}

func isRetryableError(err error) bool {
	// 40001 - serialization failure, 40P01 - deadlock detected
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
