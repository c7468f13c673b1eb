package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/nfl-bets/internal/database"
	"github.com/yourusername/nfl-bets/internal/models"
)

const gameStatColumns = `id, player_external_id, player_name, team, opponent, position, position_category,
	home_or_away, game_date, season, week, activated, played, stats, created_at`

// PostgresGameStatRepository implements GameStatRepository for PostgreSQL
type PostgresGameStatRepository struct {
	db *database.DB
}

// NewPostgresGameStatRepository creates a new game stat repository
func NewPostgresGameStatRepository(db *database.DB) GameStatRepository {
	return &PostgresGameStatRepository{db: db}
}

// Upsert inserts a game line or replaces the existing one for the same player, season and week
func (r *PostgresGameStatRepository) Upsert(ctx context.Context, stat *models.GameStat) error {
	if stat.ID == uuid.Nil {
		stat.ID = uuid.New()
	}
	if stat.Stats == nil {
		stat.Stats = map[string]float64{}
	}

	query := `
		INSERT INTO player_game_stats (
			id, player_external_id, player_name, team, opponent, position, position_category,
			home_or_away, game_date, season, week, season_week, activated, played, stats
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (player_external_id, season, week) DO UPDATE SET
			player_name = EXCLUDED.player_name, team = EXCLUDED.team, opponent = EXCLUDED.opponent,
			position = EXCLUDED.position, position_category = EXCLUDED.position_category,
			home_or_away = EXCLUDED.home_or_away, game_date = EXCLUDED.game_date,
			activated = EXCLUDED.activated, played = EXCLUDED.played, stats = EXCLUDED.stats
		RETURNING id, created_at
	`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		stat.ID, stat.PlayerExternalID, stat.PlayerName, stat.Team, stat.Opponent, stat.Position,
		stat.PositionCategory, stat.HomeOrAway, stat.GameDate, stat.Season, stat.Week,
		stat.SeasonWeek(), stat.Activated, stat.Played, stat.Stats,
	).Scan(&stat.ID, &stat.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game stat: %w", err)
	}

	return nil
}

// GetByPlayer retrieves a player's game history oldest first
func (r *PostgresGameStatRepository) GetByPlayer(ctx context.Context, externalID int64) ([]*models.GameStat, error) {
	query := `SELECT ` + gameStatColumns + `
		FROM player_game_stats
		WHERE player_external_id = $1
		ORDER BY season ASC, week ASC`

	return r.query(ctx, query, externalID)
}

// GetBySeasonWeek retrieves every game line recorded for a season week
func (r *PostgresGameStatRepository) GetBySeasonWeek(ctx context.Context, season, week int) ([]*models.GameStat, error) {
	query := `SELECT ` + gameStatColumns + `
		FROM player_game_stats
		WHERE season = $1 AND week = $2
		ORDER BY player_name ASC`

	return r.query(ctx, query, season, week)
}

// ListPlayerIDs returns the distinct players with recorded games
func (r *PostgresGameStatRepository) ListPlayerIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, `SELECT DISTINCT player_external_id FROM player_game_stats ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query player ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to collect player ids: %w", err)
	}
	return ids, nil
}

func (r *PostgresGameStatRepository) query(ctx context.Context, query string, args ...any) ([]*models.GameStat, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query game stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.GameStat
	for rows.Next() {
		stat := &models.GameStat{}
		err := rows.Scan(
			&stat.ID, &stat.PlayerExternalID, &stat.PlayerName, &stat.Team, &stat.Opponent,
			&stat.Position, &stat.PositionCategory, &stat.HomeOrAway, &stat.GameDate,
			&stat.Season, &stat.Week, &stat.Activated, &stat.Played, &stat.Stats, &stat.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game stat: %w", err)
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}
