package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/datasource"
	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/repository"
)

// StatsIngestionService loads weekly box scores for tracked players
type StatsIngestionService struct {
	source    datasource.StatsSource
	players   repository.PlayerRepository
	games     repository.GameStatRepository
	popular   *PopularPlayers
	validator *DataValidator
	logger    *logrus.Entry
}

// NewStatsIngestionService creates a new stats ingestion service
func NewStatsIngestionService(
	source datasource.StatsSource,
	players repository.PlayerRepository,
	games repository.GameStatRepository,
	popular *PopularPlayers,
	validator *DataValidator,
	logger *logrus.Logger,
) *StatsIngestionService {
	return &StatsIngestionService{
		source:    source,
		players:   players,
		games:     games,
		popular:   popular,
		validator: validator,
		logger:    logger.WithField("component", "stats_ingestion"),
	}
}

// CollectWeek fetches one week of stats and stores the rows of popular,
// offensive, activated players along with their player records.
func (s *StatsIngestionService) CollectWeek(ctx context.Context, season, week int, metrics *JobMetrics) error {
	rows, err := s.source.PlayerGameStatsByWeek(ctx, season, week)
	if err != nil {
		return fmt.Errorf("failed to fetch stats for %s: %w", models.SeasonWeekLabel(season, week), err)
	}

	for i := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := &rows[i]
		if !s.shouldStore(row) {
			metrics.RecordStat(false)
			continue
		}

		gs := row.ToGameStat(season, week)
		if problems := s.validator.ValidateGameStat(&gs); len(problems) > 0 {
			metrics.RecordValidationError()
			metrics.RecordStat(false)
			continue
		}

		if err := s.store(ctx, row, &gs); err != nil {
			metrics.RecordError()
			s.logger.WithError(err).WithField("player", row.Name).Warn("Failed to store weekly stats")
			continue
		}
		metrics.RecordStat(true)
	}

	s.logger.WithFields(logrus.Fields{
		"season_week": models.SeasonWeekLabel(season, week),
		"rows":        len(rows),
	}).Info("Weekly stats collected")
	return nil
}

func (s *StatsIngestionService) shouldStore(row *datasource.PlayerGameStat) bool {
	if row.PlayerID == 0 || strings.TrimSpace(row.Name) == "" {
		return false
	}
	return s.popular.Contains(row.Name) && row.IsOffensive() && row.IsActivated()
}

func (s *StatsIngestionService) store(ctx context.Context, row *datasource.PlayerGameStat, gs *models.GameStat) error {
	externalID := row.PlayerID
	player := &models.Player{
		ExternalID: &externalID,
		Name:       row.Name,
		Team:       row.Team,
		Position:   row.Position,
	}
	player.Normalize()
	if err := s.players.UpsertByExternalID(ctx, player); err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	if err := s.games.Upsert(ctx, gs); err != nil {
		return fmt.Errorf("failed to upsert game stat: %w", err)
	}
	return nil
}
