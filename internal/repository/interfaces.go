package repository

import (
	"context"

	"github.com/yourusername/nfl-bets/internal/models"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	GetByExternalID(ctx context.Context, externalID int64) (*models.Player, error)
	GetAll(ctx context.Context) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int64) error
	// UpsertByExternalID creates or refreshes the player keyed by ExternalID.
	UpsertByExternalID(ctx context.Context, player *models.Player) error
}

// GameStatRepository defines the interface for per-game stat history
type GameStatRepository interface {
	Upsert(ctx context.Context, stat *models.GameStat) error
	// GetByPlayer returns a player's games ordered oldest first.
	GetByPlayer(ctx context.Context, externalID int64) ([]*models.GameStat, error)
	GetBySeasonWeek(ctx context.Context, season, week int) ([]*models.GameStat, error)
	ListPlayerIDs(ctx context.Context) ([]int64, error)
}

// RollingStatsRepository defines the interface for rolling stat summaries
type RollingStatsRepository interface {
	Upsert(ctx context.Context, stats *models.RollingStats) error
	GetByPlayer(ctx context.Context, externalID int64) (*models.RollingStats, error)
	GetAll(ctx context.Context) ([]*models.RollingStats, error)
}

// PropRepository defines the interface for collected sportsbook prop lines
type PropRepository interface {
	// ReplaceForDate swaps the stored lines for date and bookmaker with props.
	ReplaceForDate(ctx context.Context, date, bookmaker string, props []*models.PropLine) error
	// ReplaceForEvents swaps only the lines of eventIDs, keeping other events of the date.
	ReplaceForEvents(ctx context.Context, date, bookmaker string, eventIDs []string, props []*models.PropLine) error
	GetByDate(ctx context.Context, date string) ([]*models.PropLine, error)
	// LatestDate returns the most recent prop date, or models.ErrNotFound.
	LatestDate(ctx context.Context) (string, error)
}
