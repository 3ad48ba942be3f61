package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// League carries the settlement configuration for one fantasy league.
type League struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	Name               string          `json:"name" db:"name"`
	CommissionerID     uuid.UUID       `json:"commissioner_id" db:"commissioner_id"`
	WeeklyPrize        decimal.Decimal `json:"weekly_prize" db:"weekly_prize"`
	LowScoreFee        decimal.Decimal `json:"low_score_fee" db:"low_score_fee"`
	LowScoreFeeEnabled bool            `json:"low_score_fee_enabled" db:"low_score_fee_enabled"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}
