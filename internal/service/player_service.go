package service

import (
	"context"

	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/repository"
)

// PlayerService implements CRUD over player records
type PlayerService struct {
	repo repository.PlayerRepository
}

// NewPlayerService creates a new player service
func NewPlayerService(repo repository.PlayerRepository) *PlayerService {
	return &PlayerService{repo: repo}
}

// Create validates and stores a new player, assigning its ID
func (s *PlayerService) Create(ctx context.Context, player *models.Player) error {
	player.Normalize()
	if err := player.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, player)
}

// Get returns the player with id, or models.ErrNotFound
func (s *PlayerService) Get(ctx context.Context, id int64) (*models.Player, error) {
	if id <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

// List returns every player
func (s *PlayerService) List(ctx context.Context) ([]*models.Player, error) {
	return s.repo.GetAll(ctx)
}

// Update replaces the mutable fields of player id
func (s *PlayerService) Update(ctx context.Context, id int64, player *models.Player) error {
	if id <= 0 {
		return models.ErrInvalidID
	}
	player.ID = id
	player.Normalize()
	if err := player.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, player)
}

// Delete removes player id
func (s *PlayerService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return models.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}
