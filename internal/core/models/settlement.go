package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScoreSource tags where a weekly score came from.
type ScoreSource string

const (
	ScoreSourceReal ScoreSource = "real"
	ScoreSourceMock ScoreSource = "mock"
)

// MemberScore is one member's weekly score as delivered by the
// score-ingestion collaborator. A nil MemberID marks an unmapped team.
type MemberScore struct {
	MemberID uuid.UUID       `json:"memberId"`
	Score    decimal.Decimal `json:"score"`
	Source   ScoreSource     `json:"source"`
}

// SettlementCredit records one prize credit issued by a weekly sync.
type SettlementCredit struct {
	WalletID uuid.UUID       `json:"walletId"`
	MemberID uuid.UUID       `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
}

// SettlementPayment records one collection request handed to the
// payment-collection collaborator for the week's lowest scorer.
type SettlementPayment struct {
	PaymentID string          `json:"paymentId"`
	MemberID  uuid.UUID       `json:"memberId"`
	Amount    decimal.Decimal `json:"amount"`
}

// SettlementResult is the outcome of processing one weekly score sync.
// Warnings carry per-member failures; they never abort the sync.
type SettlementResult struct {
	CreditsIssued     []SettlementCredit  `json:"creditsIssued"`
	PaymentsRequested []SettlementPayment `json:"paymentsRequested"`
	Warnings          []string            `json:"warnings"`
}
