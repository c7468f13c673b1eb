package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/nfl-bets/internal/logger"
	"github.com/yourusername/nfl-bets/internal/matcher"
	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/probability"
	"github.com/yourusername/nfl-bets/internal/repository"
	"github.com/yourusername/nfl-bets/internal/value"
)

// ErrPlayerNotMatched is returned when a name has no rolling stats match
var ErrPlayerNotMatched = errors.New("no rolling stats for player")

// ProbabilityService turns stored prop lines and rolling stats into model
// probabilities and value opportunities.
type ProbabilityService struct {
	props     repository.PropRepository
	rolling   repository.RollingStatsRepository
	engine    *probability.Engine
	index     *matcher.CachedIndex
	evaluator *value.Evaluator
	now       func() time.Time
	logger    *logger.PredictionLogger

	mu        sync.RWMutex
	listeners []func([]models.ValueOpportunity)
}

// NewProbabilityService creates a new probability service. The rolling stats
// name index is rebuilt at most once per nameCacheTTL.
func NewProbabilityService(
	props repository.PropRepository,
	rolling repository.RollingStatsRepository,
	engine *probability.Engine,
	evaluator *value.Evaluator,
	matchThreshold float64,
	nameCacheTTL time.Duration,
	log *logger.PredictionLogger,
) *ProbabilityService {
	s := &ProbabilityService{
		props:     props,
		rolling:   rolling,
		engine:    engine,
		evaluator: evaluator,
		now:       time.Now,
		logger:    log,
	}
	s.index = matcher.NewCachedIndex(s.loadCandidates, matchThreshold, nameCacheTTL)
	return s
}

func (s *ProbabilityService) loadCandidates(ctx context.Context) ([]matcher.Candidate, error) {
	all, err := s.rolling.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PlayerName < all[j].PlayerName })

	out := make([]matcher.Candidate, 0, len(all))
	for _, r := range all {
		out = append(out, matcher.Candidate{ID: r.PlayerExternalID, Name: r.PlayerName})
	}
	return out, nil
}

// InvalidateNames drops the cached name index, e.g. after a rolling stats update
func (s *ProbabilityService) InvalidateNames() {
	s.index.Invalidate()
}

// TodaysProbabilities returns player name -> prop name -> probability for
// today's props, falling back to the most recent date that has props.
func (s *ProbabilityService) TodaysProbabilities(ctx context.Context) (map[string]map[string]float64, error) {
	probs, _, err := s.evaluate(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]float64)
	for _, p := range probs {
		if out[p.PlayerName] == nil {
			out[p.PlayerName] = make(map[string]float64)
		}
		out[p.PlayerName][p.PropName] = p.Probability
	}
	return out, nil
}

// TodaysPropProbabilities returns the detailed probability records behind TodaysProbabilities
func (s *ProbabilityService) TodaysPropProbabilities(ctx context.Context) ([]models.PropProbability, error) {
	probs, _, err := s.evaluate(ctx)
	return probs, err
}

// OnOpportunities registers fn to receive every evaluated opportunity list
func (s *ProbabilityService) OnOpportunities(fn func([]models.ValueOpportunity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Opportunities prices today's props and returns the ranked value opportunities
func (s *ProbabilityService) Opportunities(ctx context.Context) ([]models.ValueOpportunity, error) {
	_, candidates, err := s.evaluate(ctx)
	if err != nil {
		return nil, err
	}
	opps := s.evaluator.Evaluate(candidates)

	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(opps)
	}
	return opps, nil
}

// MarketProbability computes both sides of one market for a player. point
// is required for over/under markets.
func (s *ProbabilityService) MarketProbability(ctx context.Context, playerName, marketKey string, point *float64) ([]models.PropProbability, error) {
	market, ok := probability.LookupMarket(marketKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", probability.ErrUnknownMarket, marketKey)
	}

	rolling, err := s.resolve(ctx, playerName)
	if err != nil {
		return nil, err
	}

	if market.Binary() {
		point = nil
	}
	est, err := s.engine.Market(rolling, marketKey, point)
	if err != nil {
		return nil, err
	}

	sides := []probability.Side{probability.Over, probability.Under}
	if market.Binary() {
		sides = []probability.Side{probability.Yes, probability.No}
	}
	out := make([]models.PropProbability, 0, len(sides))
	for _, side := range sides {
		out = append(out, record(rolling, marketKey, side, point, est))
	}
	return out, nil
}

func (s *ProbabilityService) resolve(ctx context.Context, playerName string) (*models.RollingStats, error) {
	ix, err := s.index.Get(ctx)
	if err != nil {
		return nil, err
	}
	match, ok := ix.Match(playerName)
	if !ok {
		s.logger.LogUnmatchedPlayer(playerName, match.Score)
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotMatched, playerName)
	}
	return s.rolling.GetByPlayer(ctx, match.ID)
}

// propsForToday loads today's props or the most recent stored date
func (s *ProbabilityService) propsForToday(ctx context.Context) ([]*models.PropLine, error) {
	today := s.now().UTC().Format(PropDateLayout)
	props, err := s.props.GetByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load props for %s: %w", today, err)
	}
	if len(props) > 0 {
		return props, nil
	}

	latest, err := s.props.LatestDate(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest prop date: %w", err)
	}
	return s.props.GetByDate(ctx, latest)
}

type estimateKey struct {
	player int64
	market string
	point  string
}

// evaluate computes one probability per stored line. Each (player, market,
// point) estimate is computed once and shared by both sides and bookmakers.
func (s *ProbabilityService) evaluate(ctx context.Context) ([]models.PropProbability, []value.Candidate, error) {
	props, err := s.propsForToday(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(props) == 0 {
		return nil, nil, nil
	}

	ix, err := s.index.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	rollingByID := make(map[int64]*models.RollingStats)
	unmatched := make(map[string]bool)
	estimates := make(map[estimateKey]*probability.Estimate)
	seen := make(map[string]bool)

	var probs []models.PropProbability
	var candidates []value.Candidate
	for _, line := range props {
		side, ok := probability.SideForOutcome(line.Outcome)
		if !ok {
			continue
		}

		nameKey := strings.ToLower(line.PlayerName)
		if unmatched[nameKey] {
			continue
		}
		match, ok := ix.Match(line.PlayerName)
		if !ok {
			unmatched[nameKey] = true
			s.logger.LogUnmatchedPlayer(line.PlayerName, match.Score)
			continue
		}

		rolling, ok := rollingByID[match.ID]
		if !ok {
			rolling, err = s.rolling.GetByPlayer(ctx, match.ID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					unmatched[nameKey] = true
					continue
				}
				return nil, nil, fmt.Errorf("failed to load rolling stats for %s: %w", match.Name, err)
			}
			rollingByID[match.ID] = rolling
		}

		var point *float64
		key := estimateKey{player: match.ID, market: line.MarketKey, point: "-"}
		if p, ok := line.PointValue(); ok && side != probability.Yes && side != probability.No {
			point = &p
			key.point = probability.FormatPoint(p)
		}

		est, ok := estimates[key]
		if !ok {
			e, err := s.engine.Market(rolling, line.MarketKey, point)
			if err != nil {
				s.logger.LogEstimateFailure(rolling.PlayerName, line.MarketKey, point, err)
				estimates[key] = nil
				continue
			}
			est = &e
			estimates[key] = est
		}
		if est == nil {
			continue
		}

		rec := record(rolling, line.MarketKey, side, point, *est)
		candidates = append(candidates, value.Candidate{Probability: rec, Line: *line})

		dedupe := rolling.PlayerName + "|" + rec.PropName
		if seen[dedupe] {
			continue
		}
		seen[dedupe] = true
		probs = append(probs, rec)
		s.logger.LogProbability(rec.PlayerName, rec.PropName, rec.Distribution, rec.Probability, rec.SampleSize)
	}

	return probs, candidates, nil
}

func record(rolling *models.RollingStats, marketKey string, side probability.Side, point *float64, est probability.Estimate) models.PropProbability {
	return models.PropProbability{
		PlayerName:       rolling.PlayerName,
		PlayerExternalID: rolling.PlayerExternalID,
		PropName:         probability.PropName(marketKey, side, point),
		MarketKey:        marketKey,
		Side:             string(side),
		Point:            point,
		Probability:      est.Probability(side),
		Distribution:     string(est.Distribution),
		WeightedMean:     est.WeightedMean,
		SampleSize:       est.SampleSize,
	}
}
