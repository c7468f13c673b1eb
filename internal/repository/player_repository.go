package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/nfl-bets/internal/database"
	"github.com/yourusername/nfl-bets/internal/models"
)

const uniqueViolation = "23505"

const playerColumns = `id, external_id, name, team, position, created_at, updated_at`

// PostgresPlayerRepository implements PlayerRepository for PostgreSQL
type PostgresPlayerRepository struct {
	db *database.DB
}

// NewPostgresPlayerRepository creates a new player repository
func NewPostgresPlayerRepository(db *database.DB) PlayerRepository {
	return &PostgresPlayerRepository{db: db}
}

// Create inserts a new player and assigns its identity
func (r *PostgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (external_id, name, team, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		player.ExternalID, player.Name, player.Team, player.Position,
	).Scan(&player.ID, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// GetByID retrieves a player by ID
func (r *PostgresPlayerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player, err := scanPlayer(r.db.Conn(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// GetByExternalID retrieves a player by the stats provider ID
func (r *PostgresPlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE external_id = $1`

	player, err := scanPlayer(r.db.Conn(ctx).QueryRow(ctx, query, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by external id: %w", err)
	}

	return player, nil
}

// GetAll retrieves all players ordered by ID
func (r *PostgresPlayerRepository) GetAll(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY id ASC`

	rows, err := r.db.Conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// Update updates an existing player
func (r *PostgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			external_id = $2, name = $3, team = $4, position = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		player.ID, player.ExternalID, player.Name, player.Team, player.Position,
	).Scan(&player.CreatedAt, &player.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateKey
		}
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}

// Delete deletes a player
func (r *PostgresPlayerRepository) Delete(ctx context.Context, id int64) error {
	commandTag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpsertByExternalID inserts or refreshes a player keyed by external ID
func (r *PostgresPlayerRepository) UpsertByExternalID(ctx context.Context, player *models.Player) error {
	if player.ExternalID == nil {
		return models.ErrInvalidID
	}

	query := `
		INSERT INTO players (external_id, name, team, position)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name, team = EXCLUDED.team, position = EXCLUDED.position, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Conn(ctx).QueryRow(ctx, query,
		player.ExternalID, player.Name, player.Team, player.Position,
	).Scan(&player.ID, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}

	return nil
}

func scanPlayer(row pgx.Row) (*models.Player, error) {
	player := &models.Player{}
	err := row.Scan(
		&player.ID, &player.ExternalID, &player.Name, &player.Team, &player.Position,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return player, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
