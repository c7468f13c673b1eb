// Package repository provides PostgreSQL and in-memory data access.
package repository

import (
	"fmt"

	"github.com/yourusername/nfl-bets/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Player       PlayerRepository
	GameStat     GameStatRepository
	RollingStats RollingStatsRepository
	Prop         PropRepository
}

// NewRepositories creates the PostgreSQL repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Player:       NewPostgresPlayerRepository(db),
		GameStat:     NewPostgresGameStatRepository(db),
		RollingStats: NewPostgresRollingStatsRepository(db),
		Prop:         NewPostgresPropRepository(db),
	}, nil
}

// NewMemoryRepositories creates in-memory implementations for development and tests
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Player:       NewMemoryPlayerRepository(),
		GameStat:     NewMemoryGameStatRepository(),
		RollingStats: NewMemoryRollingStatsRepository(),
		Prop:         NewMemoryPropRepository(),
	}
}
