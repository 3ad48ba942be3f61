package apperrors

import "errors"

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidPayoutType = errors.New("invalid payout type")
	ErrInvalidEntry      = errors.New("invalid ledger entry")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrLeagueNotFound    = errors.New("league not found")
	ErrRequestNotFound   = errors.New("withdrawal request not found")
	ErrAlreadyResolved   = errors.New("withdrawal request already resolved")
	ErrInvalidTransition = errors.New("invalid withdrawal status transition")
	ErrNotCommissioner   = errors.New("caller is not the league commissioner")
)
