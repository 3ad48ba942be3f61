package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/apperrors"
)

// PayoutType is the withdrawal speed tier.
type PayoutType string

const (
	PayoutStandard PayoutType = "standard"
	PayoutInstant  PayoutType = "instant"
)

func (p PayoutType) Valid() bool {
	return p == PayoutStandard || p == PayoutInstant
}

// instantFeeRate is the fee taken from instant withdrawals, rounded to cents.
var instantFeeRate = decimal.RequireFromString("0.025")

// ComputeFee returns the fee for a withdrawal of amount at the given tier.
func ComputeFee(payoutType PayoutType, amount decimal.Decimal) decimal.Decimal {
	if payoutType == PayoutInstant {
		return amount.Mul(instantFeeRate).Round(2)
	}
	return decimal.Zero
}

// WithdrawalStatus is the lifecycle state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalFailed     WithdrawalStatus = "failed"
)

func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalPending, WithdrawalProcessing, WithdrawalCompleted, WithdrawalFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalCompleted || s == WithdrawalFailed
}

// CanTransition reports whether s -> target is a legal move:
// pending -> processing -> completed, or pending|processing -> failed.
func (s WithdrawalStatus) CanTransition(target WithdrawalStatus) bool {
	switch s {
	case WithdrawalPending:
		return target == WithdrawalProcessing || target == WithdrawalCompleted || target == WithdrawalFailed
	case WithdrawalProcessing:
		return target == WithdrawalCompleted || target == WithdrawalFailed
	}
	return false
}

// WithdrawalRequest holds one withdrawal attempt. The gross Amount is
// debited from the wallet at creation; NetAmount is what the member
// receives after the speed-tier fee.
type WithdrawalRequest struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	WalletID    uuid.UUID        `json:"wallet_id" db:"wallet_id"`
	Amount      decimal.Decimal  `json:"amount" db:"amount"`
	PayoutType  PayoutType       `json:"payout_type" db:"payout_type"`
	FeeAmount   decimal.Decimal  `json:"fee_amount" db:"fee_amount"`
	NetAmount   decimal.Decimal  `json:"net_amount" db:"net_amount"`
	Status      WithdrawalStatus `json:"status" db:"status"`
	RequestedAt time.Time        `json:"requested_at" db:"requested_at"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty" db:"resolved_at"`
}

// NewWithdrawalRequest builds a pending request with its fee breakdown.
// Balance checks happen later, under the wallet row lock.
func NewWithdrawalRequest(walletID uuid.UUID, amount decimal.Decimal, payoutType PayoutType) (*WithdrawalRequest, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}
	if !payoutType.Valid() {
		return nil, apperrors.ErrInvalidPayoutType
	}

	fee := ComputeFee(payoutType, amount)
	return &WithdrawalRequest{
		ID:         uuid.New(),
		WalletID:   walletID,
		Amount:     amount,
		PayoutType: payoutType,
		FeeAmount:  fee,
		NetAmount:  amount.Sub(fee),
		Status:     WithdrawalPending,
	}, nil
}
