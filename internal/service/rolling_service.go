package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/repository"
	"github.com/yourusername/nfl-bets/internal/stats"
)

// RollingStatsService recomputes rolling summaries from stored game history
type RollingStatsService struct {
	games      repository.GameStatRepository
	rolling    repository.RollingStatsRepository
	aggregator *stats.Aggregator
	logger     *logrus.Entry
}

// NewRollingStatsService creates a new rolling stats service
func NewRollingStatsService(
	games repository.GameStatRepository,
	rolling repository.RollingStatsRepository,
	aggregator *stats.Aggregator,
	logger *logrus.Logger,
) *RollingStatsService {
	return &RollingStatsService{
		games:      games,
		rolling:    rolling,
		aggregator: aggregator,
		logger:     logger.WithField("component", "rolling_stats"),
	}
}

// UpdatePlayer recomputes the summary for one player
func (s *RollingStatsService) UpdatePlayer(ctx context.Context, externalID int64) error {
	games, err := s.games.GetByPlayer(ctx, externalID)
	if err != nil {
		return fmt.Errorf("failed to load games for player %d: %w", externalID, err)
	}

	summary, err := s.aggregator.Compute(games)
	if err != nil {
		return err
	}
	summary.UpdatedAt = time.Now().UTC()

	if err := s.rolling.Upsert(ctx, summary); err != nil {
		return fmt.Errorf("failed to store rolling stats for player %d: %w", externalID, err)
	}
	return nil
}

// UpdateAll recomputes summaries for every player with history and returns
// how many were updated. Per-player failures are logged and skipped.
func (s *RollingStatsService) UpdateAll(ctx context.Context) (int, error) {
	ids, err := s.games.ListPlayerIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list players with history: %w", err)
	}

	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if err := s.UpdatePlayer(ctx, id); err != nil {
			if !errors.Is(err, stats.ErrNoGames) {
				s.logger.WithError(err).WithField("player_external_id", id).Warn("Rolling stats update failed")
			}
			continue
		}
		updated++
	}

	s.logger.WithFields(logrus.Fields{
		"players": len(ids),
		"updated": updated,
	}).Info("Rolling stats updated")
	return updated, nil
}
