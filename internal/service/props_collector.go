package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/datasource"
	"github.com/yourusername/nfl-bets/internal/matcher"
	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/repository"
)

// PropDateLayout formats the date props are stored under
const PropDateLayout = "2006-01-02"

// PropsCollector stores today's player prop lines from one bookmaker
type PropsCollector struct {
	source     datasource.OddsSource
	props      repository.PropRepository
	index      *matcher.Index
	validator  *DataValidator
	bookmaker  string
	eventDelay time.Duration
	now        func() time.Time
	logger     *logrus.Entry
}

// PropsCollectorConfig configures a PropsCollector
type PropsCollectorConfig struct {
	Bookmaker      string
	EventDelay     time.Duration
	MatchThreshold float64
}

// NewPropsCollector creates a new props collector matching outcome names
// against the popular players list.
func NewPropsCollector(
	source datasource.OddsSource,
	props repository.PropRepository,
	popular *PopularPlayers,
	validator *DataValidator,
	cfg PropsCollectorConfig,
	logger *logrus.Logger,
) *PropsCollector {
	return &PropsCollector{
		source:     source,
		props:      props,
		index:      matcher.NewIndex(popular.Candidates(), cfg.MatchThreshold),
		validator:  validator,
		bookmaker:  cfg.Bookmaker,
		eventDelay: cfg.EventDelay,
		now:        time.Now,
		logger:     logger.WithField("component", "props_collector"),
	}
}

// CollectToday fetches odds for every event commencing today (UTC) and
// replaces the stored lines for today and the configured bookmaker. When some
// events fail, only the lines of the fetched events are replaced and the
// failed events keep their previous lines. Stored and unmatched counts are
// recorded on metrics.
func (c *PropsCollector) CollectToday(ctx context.Context, metrics *JobMetrics) error {
	now := c.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	propDate := dayStart.Format(PropDateLayout)

	events, err := c.source.Events(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}
	if len(events) == 0 {
		c.logger.WithField("date", propDate).Info("No events today")
		return nil
	}

	var (
		lines   []*models.PropLine
		fetched []string
	)
	unmatched := 0
	for i, event := range events {
		if i > 0 && c.eventDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.eventDelay):
			}
		}

		odds, err := c.source.EventOdds(ctx, event.ID)
		if err != nil {
			metrics.RecordError()
			c.logger.WithError(err).WithField("event_id", event.ID).Warn("Failed to fetch event odds")
			continue
		}

		eventLines, missed := c.extract(odds, propDate, now, metrics)
		lines = append(lines, eventLines...)
		fetched = append(fetched, event.ID)
		unmatched += missed
	}

	failed := len(events) - len(fetched)
	switch {
	case len(fetched) == 0:
		return fmt.Errorf("failed to fetch odds for all %d events", failed)
	case failed > 0:
		err = c.props.ReplaceForEvents(ctx, propDate, c.bookmaker, fetched, lines)
	default:
		err = c.props.ReplaceForDate(ctx, propDate, c.bookmaker, lines)
	}
	if err != nil {
		return fmt.Errorf("failed to store props: %w", err)
	}
	metrics.RecordProps(len(lines), unmatched)

	c.logger.WithFields(logrus.Fields{
		"date":      propDate,
		"events":    len(events),
		"failed":    failed,
		"lines":     len(lines),
		"unmatched": unmatched,
	}).Info("Props collected")
	return nil
}

func (c *PropsCollector) extract(odds *datasource.EventOdds, propDate string, collectedAt time.Time, metrics *JobMetrics) ([]*models.PropLine, int) {
	book, ok := odds.Bookmaker(c.bookmaker)
	if !ok {
		c.logger.WithField("event_id", odds.ID).Debug("Bookmaker not offering event")
		return nil, 0
	}

	var lines []*models.PropLine
	unmatched := 0
	for _, market := range book.Markets {
		for _, outcome := range market.Outcomes {
			match, ok := c.index.Match(outcome.Description)
			if !ok {
				unmatched++
				continue
			}

			line := &models.PropLine{
				ID:           uuid.New(),
				EventID:      odds.ID,
				HomeTeam:     odds.HomeTeam,
				AwayTeam:     odds.AwayTeam,
				CommenceTime: odds.CommenceTime,
				PlayerName:   match.Name,
				MarketKey:    market.Key,
				Outcome:      outcome.Name,
				Price:        outcome.Price,
				Point:        outcome.Point,
				Bookmaker:    c.bookmaker,
				LastUpdate:   market.LastUpdate,
				PropDate:     propDate,
				CollectedAt:  collectedAt,
			}
			if problems := c.validator.ValidatePropLine(line); len(problems) > 0 {
				metrics.RecordValidationError()
				continue
			}
			lines = append(lines, line)
		}
	}
	return lines, unmatched
}
