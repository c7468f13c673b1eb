package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/nfl-bets/internal/database"
	"github.com/yourusername/nfl-bets/internal/models"
)

const rollingColumns = `player_external_id, player_name, team, position, total_games, last_game_date, stats, updated_at`

// PostgresRollingStatsRepository implements RollingStatsRepository for PostgreSQL
type PostgresRollingStatsRepository struct {
	db *database.DB
}

// NewPostgresRollingStatsRepository creates a new rolling stats repository
func NewPostgresRollingStatsRepository(db *database.DB) RollingStatsRepository {
	return &PostgresRollingStatsRepository{db: db}
}

// Upsert stores the latest rolling summary for a player
func (r *PostgresRollingStatsRepository) Upsert(ctx context.Context, stats *models.RollingStats) error {
	query := `
		INSERT INTO player_rolling_stats (
			player_external_id, player_name, team, position, total_games, last_game_date, stats, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (player_external_id) DO UPDATE SET
			player_name = EXCLUDED.player_name, team = EXCLUDED.team, position = EXCLUDED.position,
			total_games = EXCLUDED.total_games, last_game_date = EXCLUDED.last_game_date,
			stats = EXCLUDED.stats, updated_at = NOW()
		RETURNING updated_at
	`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		stats.PlayerExternalID, stats.PlayerName, stats.Team, stats.Position,
		stats.TotalGames, stats.LastGameDate, stats.Stats,
	).Scan(&stats.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert rolling stats: %w", err)
	}

	return nil
}

// GetByPlayer retrieves the rolling summary for a player
func (r *PostgresRollingStatsRepository) GetByPlayer(ctx context.Context, externalID int64) (*models.RollingStats, error) {
	query := `SELECT ` + rollingColumns + ` FROM player_rolling_stats WHERE player_external_id = $1`

	stats, err := scanRolling(r.db.Conn(ctx).QueryRow(ctx, query, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rolling stats: %w", err)
	}

	return stats, nil
}

// GetAll retrieves every rolling summary ordered by player name
func (r *PostgresRollingStatsRepository) GetAll(ctx context.Context) ([]*models.RollingStats, error) {
	query := `SELECT ` + rollingColumns + ` FROM player_rolling_stats ORDER BY player_name ASC`

	rows, err := r.db.Conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rolling stats: %w", err)
	}
	defer rows.Close()

	var all []*models.RollingStats
	for rows.Next() {
		stats, err := scanRolling(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rolling stats: %w", err)
		}
		all = append(all, stats)
	}

	return all, rows.Err()
}

func scanRolling(row pgx.Row) (*models.RollingStats, error) {
	stats := &models.RollingStats{}
	err := row.Scan(
		&stats.PlayerExternalID, &stats.PlayerName, &stats.Team, &stats.Position,
		&stats.TotalGames, &stats.LastGameDate, &stats.Stats, &stats.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
