package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"leaguepay/internal/core/logger"
	"leaguepay/internal/core/metrics"
	"leaguepay/internal/core/models"
	"leaguepay/internal/core/repository"
)

// PaymentRequester is the payment-collection collaborator: it asks a member
// to pay, it does not move ledger money.
type PaymentRequester interface {
	RequestPayment(ctx context.Context, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string) (string, error)
}

type SettlementUsecase interface {
	ProcessWeeklySync(ctx context.Context, leagueID uuid.UUID, week int, scores []models.MemberScore) (*models.SettlementResult, error)
}

type settlementUsecase struct {
	wallets  repository.WalletRepository
	leagues  repository.LeagueRepository
	payments PaymentRequester
	log      logger.Logger
}

func NewSettlementUsecase(wallets repository.WalletRepository, leagues repository.LeagueRepository, payments PaymentRequester, log logger.Logger) SettlementUsecase {
	return &settlementUsecase{wallets: wallets, leagues: leagues, payments: payments, log: log}
}

// ProcessWeeklySync settles one completed score sync: the highest scorer is
// credited the weekly prize, the lowest scorer gets a payment-collection
// request. Per-member failures become warnings; they never abort the rest of
// the sync, and every credit runs as its own atomic unit.
func (uc *settlementUsecase) ProcessWeeklySync(ctx context.Context, leagueID uuid.UUID, week int, scores []models.MemberScore) (*models.SettlementResult, error) {
	league, err := uc.leagues.GetByID(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	result := &models.SettlementResult{
		CreditsIssued:     make([]models.SettlementCredit, 0),
		PaymentsRequested: make([]models.SettlementPayment, 0),
		Warnings:          make([]string, 0),
	}

	mapped := make([]models.MemberScore, 0, len(scores))
	for _, s := range scores {
		if s.MemberID == uuid.Nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipped unmapped member score %s (source=%s)", s.Score, s.Source))
			continue
		}
		mapped = append(mapped, s)
	}

	if len(mapped) == 0 {
		result.Warnings = append(result.Warnings, "no mapped member scores in sync")
		return result, nil
	}

	uc.creditHighScorer(ctx, league, week, highScorer(mapped), result)
	uc.collectFromLowScorer(ctx, league, week, lowScorer(mapped), result)

	return result, nil
}

func (uc *settlementUsecase) creditHighScorer(ctx context.Context, league *models.League, week int, winner models.MemberScore, result *models.SettlementResult) {
	if league.WeeklyPrize.LessThanOrEqual(decimal.Zero) {
		return
	}

	wallet, err := uc.wallets.GetOrCreate(ctx, league.ID, winner.MemberID)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("high score prize for member %s: %v", winner.MemberID, err))
		return
	}

	wallet, err = uc.wallets.ApplyEntry(ctx, wallet.ID, models.Entry{
		Kind:        models.EntryCreditAvailable,
		Amount:      league.WeeklyPrize,
		SourceType:  models.SourceWeeklyHighScore,
		Description: fmt.Sprintf("week %d high score prize", week),
	})
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("high score prize for member %s: %v", winner.MemberID, err))
		return
	}

	metrics.LedgerEntries.WithLabelValues(string(models.SourceWeeklyHighScore), string(models.TransactionCredit)).Inc()
	uc.log.Info("Weekly high score prize credited",
		logger.StringField("league_id", league.ID.String()),
		logger.StringField("member_id", winner.MemberID.String()),
		logger.StringField("amount", league.WeeklyPrize.StringFixedBank(2)),
		logger.IntField("week", week),
	)

	result.CreditsIssued = append(result.CreditsIssued, models.SettlementCredit{
		WalletID: wallet.ID,
		MemberID: winner.MemberID,
		Amount:   league.WeeklyPrize,
	})
}

// collectFromLowScorer delegates the low-score fee to the payment processor
// instead of debiting the ledger: the member has not paid yet.
func (uc *settlementUsecase) collectFromLowScorer(ctx context.Context, league *models.League, week int, loser models.MemberScore, result *models.SettlementResult) {
	if !league.LowScoreFeeEnabled || league.LowScoreFee.LessThanOrEqual(decimal.Zero) {
		return
	}

	reason := fmt.Sprintf("week %d low score fee", week)
	paymentID, err := uc.payments.RequestPayment(ctx, league.ID, loser.MemberID, league.LowScoreFee, reason)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("low score fee for member %s: %v", loser.MemberID, err))
		return
	}

	uc.log.Info("Low score fee collection requested",
		logger.StringField("league_id", league.ID.String()),
		logger.StringField("member_id", loser.MemberID.String()),
		logger.StringField("payment_id", paymentID),
		logger.IntField("week", week),
	)

	result.PaymentsRequested = append(result.PaymentsRequested, models.SettlementPayment{
		PaymentID: paymentID,
		MemberID:  loser.MemberID,
		Amount:    league.LowScoreFee,
	})
}

// highScorer picks the extreme scorer deterministically: ties resolve to the
// lowest member UUID in lexicographic order, independent of input order.
func highScorer(scores []models.MemberScore) models.MemberScore {
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score.GreaterThan(best.Score) ||
			(s.Score.Equal(best.Score) && s.MemberID.String() < best.MemberID.String()) {
			best = s
		}
	}
	return best
}

func lowScorer(scores []models.MemberScore) models.MemberScore {
	worst := scores[0]
	for _, s := range scores[1:] {
		if s.Score.LessThan(worst.Score) ||
			(s.Score.Equal(worst.Score) && s.MemberID.String() < worst.MemberID.String()) {
			worst = s
		}
	}
	return worst
}
