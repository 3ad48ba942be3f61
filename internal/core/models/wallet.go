package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/apperrors"
)

// Wallet is the balance record for one member within one league.
// Invariant: TotalEarnings == Available + Pending + TotalWithdrawn.
type Wallet struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	LeagueID       uuid.UUID       `json:"league_id" db:"league_id"`
	MemberID       uuid.UUID       `json:"member_id" db:"member_id"`
	Available      decimal.Decimal `json:"available_balance" db:"available_balance"`
	Pending        decimal.Decimal `json:"pending_balance" db:"pending_balance"`
	TotalEarnings  decimal.Decimal `json:"total_earnings" db:"total_earnings"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn" db:"total_withdrawn"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// WalletSummary is a wallet snapshot joined with its league name.
type WalletSummary struct {
	Wallet
	LeagueName string `json:"league_name" db:"league_name"`
}

// EntryKind determines which balances a ledger entry moves.
type EntryKind string

const (
	// EntryCreditAvailable - funds immediately withdrawable
	EntryCreditAvailable EntryKind = "credit-available"
	// EntryCreditPending - funds earned but not yet finalized
	EntryCreditPending EntryKind = "credit-pending"
	// EntryPromotePending - move pending funds into available
	EntryPromotePending EntryKind = "promote-pending"
	// EntryDebitWithdrawal - gross hold for a withdrawal request
	EntryDebitWithdrawal EntryKind = "debit-withdrawal"
	// EntryCreditReversal - return of the gross hold after a failed withdrawal
	EntryCreditReversal EntryKind = "credit-reversal"
	// EntryFeeMemo - informational fee record, moves no balance
	EntryFeeMemo EntryKind = "fee-memo"
)

func (k EntryKind) IsCredit() bool {
	return k == EntryCreditAvailable || k == EntryCreditPending || k == EntryCreditReversal
}

func (k EntryKind) IsDebit() bool {
	return k == EntryDebitWithdrawal || k == EntryFeeMemo
}

func (k EntryKind) Valid() bool {
	return k.IsCredit() || k.IsDebit() || k == EntryPromotePending
}

// PayoutTiming selects how a commissioner-issued payout lands on the
// wallet: immediately withdrawable or held as pending until promoted.
type PayoutTiming string

const (
	PayoutImmediate PayoutTiming = "immediate"
	PayoutPending   PayoutTiming = "pending"
)

func (p PayoutTiming) Valid() bool {
	return p == PayoutImmediate || p == PayoutPending
}

// Entry is a request for one atomic ledger posting against a wallet.
type Entry struct {
	Kind        EntryKind
	Amount      decimal.Decimal
	SourceType  SourceType
	Description string
}

// Apply runs the balance transition for one entry. Pure function: it
// validates preconditions and mutates the in-memory wallet only. Every
// balance mutation in the system goes through here.
func (w *Wallet) Apply(e Entry) error {
	if !e.Kind.Valid() {
		return apperrors.ErrInvalidEntry
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.ErrInvalidAmount
	}

	switch e.Kind {
	case EntryCreditAvailable:
		w.Available = w.Available.Add(e.Amount)
		w.TotalEarnings = w.TotalEarnings.Add(e.Amount)
	case EntryCreditPending:
		w.Pending = w.Pending.Add(e.Amount)
		w.TotalEarnings = w.TotalEarnings.Add(e.Amount)
	case EntryPromotePending:
		if e.Amount.GreaterThan(w.Pending) {
			return apperrors.ErrInsufficientFunds
		}
		w.Pending = w.Pending.Sub(e.Amount)
		w.Available = w.Available.Add(e.Amount)
	case EntryDebitWithdrawal:
		if e.Amount.GreaterThan(w.Available) {
			return apperrors.ErrInsufficientFunds
		}
		w.Available = w.Available.Sub(e.Amount)
		w.TotalWithdrawn = w.TotalWithdrawn.Add(e.Amount)
	case EntryCreditReversal:
		w.Available = w.Available.Add(e.Amount)
		w.TotalWithdrawn = w.TotalWithdrawn.Sub(e.Amount)
	case EntryFeeMemo:
		// the fee is already part of the withheld gross amount
	}

	return nil
}

// CheckInvariant reports whether the wallet's bookkeeping invariant holds.
func (w *Wallet) CheckInvariant() bool {
	sum := w.Available.Add(w.Pending).Add(w.TotalWithdrawn)
	return w.TotalEarnings.Equal(sum) &&
		!w.Available.IsNegative() &&
		!w.Pending.IsNegative() &&
		!w.TotalWithdrawn.IsNegative()
}
