package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger row.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// SourceType records what originated a ledger row.
type SourceType string

const (
	SourceLeaguePayout    SourceType = "league-payout"
	SourceWeeklyHighScore SourceType = "weekly-high-score-prize"
	SourceWithdrawal      SourceType = "withdrawal"
	SourceFee             SourceType = "fee"
	SourceManualAdjust    SourceType = "manual-adjustment"
)

// BalanceBucket names the wallet balance a row moved. Fee memos move
// nothing and carry BucketNone.
type BalanceBucket string

const (
	BucketAvailable BalanceBucket = "available"
	BucketPending   BalanceBucket = "pending"
	BucketNone      BalanceBucket = "none"
)

// Transaction is one immutable ledger row. BalanceAfter snapshots the
// available balance right after the row was applied, for every row.
type Transaction struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	WalletID     uuid.UUID       `json:"wallet_id" db:"wallet_id"`
	Type         TransactionType `json:"type" db:"type"`
	Bucket       BalanceBucket   `json:"bucket" db:"bucket"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	SourceType   SourceType      `json:"source_type" db:"source_type"`
	Description  string          `json:"description" db:"description"`
	BalanceAfter decimal.Decimal `json:"balance_after" db:"balance_after"`
	Seq          int64           `json:"-" db:"seq"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// AvailableDelta is the signed effect of the row on the available balance.
func (t *Transaction) AvailableDelta() decimal.Decimal {
	if t.Bucket != BucketAvailable {
		return decimal.Zero
	}
	if t.Type == TransactionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ReplayAvailable folds the rows in creation order and returns the
// available balance they reproduce. It also reports false if any row's
// BalanceAfter snapshot disagrees with the running value.
func ReplayAvailable(rows []Transaction) (decimal.Decimal, bool) {
	balance := decimal.Zero
	for i := range rows {
		balance = balance.Add(rows[i].AvailableDelta())
		if !rows[i].BalanceAfter.Equal(balance) {
			return balance, false
		}
	}
	return balance, true
}
