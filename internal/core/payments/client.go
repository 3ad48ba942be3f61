package payments

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/logger"
)

// Client talks to the external payment-collection processor. The processor
// owns the actual money movement; this service only asks it to collect dues
// and later learns the outcome through the withdrawal resolution callback.
type Client struct {
	*resty.Client
	log logger.Logger
}

func NewClient(endpoint string, log logger.Logger) *Client {
	client := &Client{resty.New(), log}
	client.SetBaseURL(endpoint)

	return client
}

type paymentRequestBody struct {
	LeagueID uuid.UUID `json:"league_id"`
	MemberID uuid.UUID `json:"member_id"`
	Amount   string    `json:"amount"`
	Reason   string    `json:"reason"`
}

type paymentRequestResponse struct {
	PaymentID string `json:"payment_id"`
}

// RequestPayment asks the processor to collect the given amount from a
// member and returns the processor's payment id.
func (c *Client) RequestPayment(ctx context.Context, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string) (string, error) {
	var result paymentRequestResponse
	r, err := c.R().
		SetContext(ctx).
		SetBody(paymentRequestBody{
			LeagueID: leagueID,
			MemberID: memberID,
			Amount:   amount.StringFixedBank(2),
			Reason:   reason,
		}).
		SetResult(&result).
		Post("/api/v1/payment-requests")
	if err != nil {
		c.log.Error("error while requesting payment collection",
			logger.StringField("member_id", memberID.String()),
			logger.ErrorField("error", err))
		return "", err
	}

	if r.StatusCode() != http.StatusCreated && r.StatusCode() != http.StatusOK {
		c.log.Error("payment processor rejected collection request",
			logger.StringField("member_id", memberID.String()),
			logger.IntField("status", r.StatusCode()))
		return "", fmt.Errorf("payment processor returned status %d", r.StatusCode())
	}

	return result.PaymentID, nil
}
