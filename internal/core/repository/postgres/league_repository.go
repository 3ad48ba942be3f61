package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"leaguepay/internal/core/apperrors"
	"leaguepay/internal/core/logger"
	"leaguepay/internal/core/models"
	"leaguepay/internal/core/repository"
)

type postgresLeagueRepo struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewPostgresLeagueRepo(db *sqlx.DB, log logger.Logger) repository.LeagueRepository {
	return &postgresLeagueRepo{
		db:  db,
		log: log,
	}
}

func (r *postgresLeagueRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.League, error) {
	var league models.League
	query := `
		SELECT id, name, commissioner_id, weekly_prize, low_score_fee,
			low_score_fee_enabled, created_at
		FROM leagues
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &league, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrLeagueNotFound
		}
		return nil, fmt.Errorf("error getting league: %w", err)
	}

	return &league, nil
}
