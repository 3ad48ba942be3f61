package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leaguepay/internal/core/models"
	"leaguepay/internal/core/usecase"
)

func settlementLeague(commissioner uuid.UUID) *models.League {
	return &models.League{
		ID:                 uuid.New(),
		CommissionerID:     commissioner,
		WeeklyPrize:        dec("20.00"),
		LowScoreFee:        dec("5.00"),
		LowScoreFeeEnabled: true,
	}
}

func TestProcessWeeklySyncCreditsHighScorer(t *testing.T) {
	league := settlementLeague(uuid.New())
	memberA := uuid.New()
	memberB := uuid.New()
	memberC := uuid.New()

	var creditedMember uuid.UUID
	var applied models.Entry
	wallets := &walletRepoStub{
		getOrCreate: func(ctx context.Context, leagueID, memberID uuid.UUID) (*models.Wallet, error) {
			creditedMember = memberID
			return &models.Wallet{ID: uuid.New(), LeagueID: leagueID, MemberID: memberID}, nil
		},
		applyEntry: func(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.Wallet, error) {
			applied = entry
			return &models.Wallet{ID: walletID, Available: entry.Amount}, nil
		},
	}
	leagues := &leagueRepoStub{
		getByID: func(ctx context.Context, id uuid.UUID) (*models.League, error) { return league, nil },
	}
	var collected uuid.UUID
	payments := &paymentStub{
		requestPayment: func(ctx context.Context, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string) (string, error) {
			collected = memberID
			assert.True(t, amount.Equal(dec("5.00")))
			assert.Equal(t, "week 7 low score fee", reason)
			return "pay-123", nil
		},
	}

	uc := usecase.NewSettlementUsecase(wallets, leagues, payments, zap.NewNop())

	result, err := uc.ProcessWeeklySync(context.Background(), league.ID, 7, []models.MemberScore{
		{MemberID: memberA, Score: dec("120"), Source: models.ScoreSourceReal},
		{MemberID: memberB, Score: dec("95"), Source: models.ScoreSourceReal},
		{MemberID: memberC, Score: dec("150"), Source: models.ScoreSourceReal},
	})
	require.NoError(t, err)

	assert.Equal(t, memberC, creditedMember)
	assert.Equal(t, models.EntryCreditAvailable, applied.Kind)
	assert.Equal(t, models.SourceWeeklyHighScore, applied.SourceType)
	assert.True(t, applied.Amount.Equal(dec("20.00")))

	assert.Equal(t, memberB, collected)
	require.Len(t, result.CreditsIssued, 1)
	require.Len(t, result.PaymentsRequested, 1)
	assert.Equal(t, "pay-123", result.PaymentsRequested[0].PaymentID)
	assert.Empty(t, result.Warnings)
}

func TestProcessWeeklySyncTieBreak(t *testing.T) {
	league := settlementLeague(uuid.New())
	league.LowScoreFeeEnabled = false

	low := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	high := uuid.MustParse("99999999-9999-9999-9999-999999999999")

	var creditedMember uuid.UUID
	wallets := &walletRepoStub{
		getOrCreate: func(ctx context.Context, leagueID, memberID uuid.UUID) (*models.Wallet, error) {
			creditedMember = memberID
			return &models.Wallet{ID: uuid.New()}, nil
		},
		applyEntry: func(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.Wallet, error) {
			return &models.Wallet{ID: walletID}, nil
		},
	}
	leagues := &leagueRepoStub{
		getByID: func(ctx context.Context, id uuid.UUID) (*models.League, error) { return league, nil },
	}

	uc := usecase.NewSettlementUsecase(wallets, leagues, &paymentStub{}, zap.NewNop())

	// same score twice: the lexicographically lowest member id wins,
	// regardless of input order
	_, err := uc.ProcessWeeklySync(context.Background(), league.ID, 1, []models.MemberScore{
		{MemberID: high, Score: dec("100"), Source: models.ScoreSourceReal},
		{MemberID: low, Score: dec("100"), Source: models.ScoreSourceReal},
	})
	require.NoError(t, err)
	assert.Equal(t, low, creditedMember)
}

func TestProcessWeeklySyncSkipsUnmapped(t *testing.T) {
	league := settlementLeague(uuid.New())
	league.LowScoreFeeEnabled = false
	member := uuid.New()

	var creditedMember uuid.UUID
	wallets := &walletRepoStub{
		getOrCreate: func(ctx context.Context, leagueID, memberID uuid.UUID) (*models.Wallet, error) {
			creditedMember = memberID
			return &models.Wallet{ID: uuid.New()}, nil
		},
		applyEntry: func(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.Wallet, error) {
			return &models.Wallet{ID: walletID}, nil
		},
	}
	leagues := &leagueRepoStub{
		getByID: func(ctx context.Context, id uuid.UUID) (*models.League, error) { return league, nil },
	}

	uc := usecase.NewSettlementUsecase(wallets, leagues, &paymentStub{}, zap.NewNop())

	// the unmapped team has the top score but cannot be credited
	result, err := uc.ProcessWeeklySync(context.Background(), league.ID, 2, []models.MemberScore{
		{MemberID: uuid.Nil, Score: dec("200"), Source: models.ScoreSourceMock},
		{MemberID: member, Score: dec("90"), Source: models.ScoreSourceReal},
	})
	require.NoError(t, err)

	assert.Equal(t, member, creditedMember)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "unmapped")
}

func TestProcessWeeklySyncNoMappedScores(t *testing.T) {
	league := settlementLeague(uuid.New())
	leagues := &leagueRepoStub{
		getByID: func(ctx context.Context, id uuid.UUID) (*models.League, error) { return league, nil },
	}

	uc := usecase.NewSettlementUsecase(&walletRepoStub{}, leagues, &paymentStub{}, zap.NewNop())

	result, err := uc.ProcessWeeklySync(context.Background(), league.ID, 3, []models.MemberScore{
		{MemberID: uuid.Nil, Score: dec("100"), Source: models.ScoreSourceMock},
	})
	require.NoError(t, err)

	assert.Empty(t, result.CreditsIssued)
	assert.Empty(t, result.PaymentsRequested)
	assert.Contains(t, result.Warnings, "no mapped member scores in sync")
}

func TestProcessWeeklySyncZeroPrize(t *testing.T) {
	league := settlementLeague(uuid.New())
	league.WeeklyPrize = decimal.Zero
	league.LowScoreFeeEnabled = false

	wallets := &walletRepoStub{
		getOrCreate: func(ctx context.Context, _, _ uuid.UUID) (*models.Wallet, error) {
			t.Fatal("no credit expected with a zero prize")
			return nil, nil
		},
	}
	leagues := &leagueRepoStub{
		getByID: func(ctx context.Context, id uuid.UUID) (*models.League, error) { return league, nil },
	}

	uc := usecase.NewSettlementUsecase(wallets, leagues, &paymentStub{}, zap.NewNop())

	result, err := uc.ProcessWeeklySync(context.Background(), league.ID, 4, []models.MemberScore{
		{MemberID: uuid.New(), Score: dec("100"), Source: models.ScoreSourceReal},
	})
	require.NoError(t, err)
	assert.Empty(t, result.CreditsIssued)
}

func TestProcessWeeklySyncPaymentFailureBecomesWarning(t *testing.T) {
	league := settlementLeague(uuid.New())

	wallets := &walletRepoStub{
		getOrCreate: func(ctx context.Context, leagueID, memberID uuid.UUID) (*models.Wallet, error) {
			return &models.Wallet{ID: uuid.New()}, nil
		},
		applyEntry: func(ctx context.Context, walletID uuid.UUID, entry models.Entry) (*models.Wallet, error) {
			return &models.Wallet{ID: walletID}, nil
		},
	}
	leagues := &leagueRepoStub{
		getByID: func(ctx context.Context, id uuid.UUID) (*models.League, error) { return league, nil },
	}
	payments := &paymentStub{
		requestPayment: func(ctx context.Context, leagueID, memberID uuid.UUID, amount decimal.Decimal, reason string) (string, error) {
			return "", errors.New("processor unavailable")
		},
	}

	uc := usecase.NewSettlementUsecase(wallets, leagues, payments, zap.NewNop())

	result, err := uc.ProcessWeeklySync(context.Background(), league.ID, 5, []models.MemberScore{
		{MemberID: uuid.New(), Score: dec("110"), Source: models.ScoreSourceReal},
		{MemberID: uuid.New(), Score: dec("80"), Source: models.ScoreSourceReal},
	})
	require.NoError(t, err)

	// the failed collection does not undo the prize credit
	assert.Len(t, result.CreditsIssued, 1)
	assert.Empty(t, result.PaymentsRequested)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "low score fee")
}
