package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/nfl-bets/internal/models"
)

// MemoryPlayerRepository implements PlayerRepository in memory
type MemoryPlayerRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.Player
}

// NewMemoryPlayerRepository creates an empty in-memory player repository
func NewMemoryPlayerRepository() *MemoryPlayerRepository {
	return &MemoryPlayerRepository{byID: make(map[int64]*models.Player)}
}

// Create stores a copy of player and assigns the next identity
func (r *MemoryPlayerRepository) Create(_ context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if player.ExternalID != nil && r.findExternal(*player.ExternalID) != nil {
		return models.ErrDuplicateKey
	}
	r.insert(player)
	return nil
}

// insert assigns the next identity and stores a copy; callers hold mu
func (r *MemoryPlayerRepository) insert(player *models.Player) {
	r.nextID++
	now := time.Now().UTC()
	player.ID = r.nextID
	player.CreatedAt = now
	player.UpdatedAt = now
	r.byID[player.ID] = clonePlayer(player)
}

// GetByID retrieves a player by ID
func (r *MemoryPlayerRepository) GetByID(_ context.Context, id int64) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return clonePlayer(p), nil
}

// GetByExternalID retrieves a player by the stats provider ID
func (r *MemoryPlayerRepository) GetByExternalID(_ context.Context, externalID int64) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p := r.findExternal(externalID)
	if p == nil {
		return nil, models.ErrNotFound
	}
	return clonePlayer(p), nil
}

// GetAll retrieves all players ordered by ID
func (r *MemoryPlayerRepository) GetAll(_ context.Context) ([]*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]*models.Player, 0, len(r.byID))
	for _, p := range r.byID {
		players = append(players, clonePlayer(p))
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

// Update replaces the stored player with the same ID
func (r *MemoryPlayerRepository) Update(_ context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[player.ID]
	if !ok {
		return models.ErrNotFound
	}
	if player.ExternalID != nil {
		if other := r.findExternal(*player.ExternalID); other != nil && other.ID != player.ID {
			return models.ErrDuplicateKey
		}
	}

	player.CreatedAt = existing.CreatedAt
	player.UpdatedAt = time.Now().UTC()
	r.byID[player.ID] = clonePlayer(player)
	return nil
}

// Delete removes a player
func (r *MemoryPlayerRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// UpsertByExternalID inserts or refreshes a player keyed by external ID
func (r *MemoryPlayerRepository) UpsertByExternalID(_ context.Context, player *models.Player) error {
	if player.ExternalID == nil {
		return models.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.findExternal(*player.ExternalID)
	if existing == nil {
		r.insert(player)
		return nil
	}
	existing.Name = player.Name
	existing.Team = player.Team
	existing.Position = player.Position
	existing.UpdatedAt = time.Now().UTC()
	player.ID = existing.ID
	player.CreatedAt = existing.CreatedAt
	player.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *MemoryPlayerRepository) findExternal(externalID int64) *models.Player {
	for _, p := range r.byID {
		if p.ExternalID != nil && *p.ExternalID == externalID {
			return p
		}
	}
	return nil
}

func clonePlayer(p *models.Player) *models.Player {
	c := *p
	if p.ExternalID != nil {
		id := *p.ExternalID
		c.ExternalID = &id
	}
	return &c
}

type gameKey struct {
	player int64
	season int
	week   int
}

// MemoryGameStatRepository implements GameStatRepository in memory
type MemoryGameStatRepository struct {
	mu    sync.RWMutex
	games map[gameKey]*models.GameStat
}

// NewMemoryGameStatRepository creates an empty in-memory game stat repository
func NewMemoryGameStatRepository() *MemoryGameStatRepository {
	return &MemoryGameStatRepository{games: make(map[gameKey]*models.GameStat)}
}

// Upsert stores the game line, replacing any line for the same player, season and week
func (r *MemoryGameStatRepository) Upsert(_ context.Context, stat *models.GameStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := gameKey{player: stat.PlayerExternalID, season: stat.Season, week: stat.Week}
	if existing, ok := r.games[key]; ok {
		stat.ID = existing.ID
		stat.CreatedAt = existing.CreatedAt
	} else {
		if stat.ID == uuid.Nil {
			stat.ID = uuid.New()
		}
		stat.CreatedAt = time.Now().UTC()
	}
	r.games[key] = cloneGameStat(stat)
	return nil
}

// GetByPlayer retrieves a player's game history oldest first
func (r *MemoryGameStatRepository) GetByPlayer(_ context.Context, externalID int64) ([]*models.GameStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.GameStat
	for key, g := range r.games {
		if key.player == externalID {
			out = append(out, cloneGameStat(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// GetBySeasonWeek retrieves every game line recorded for a season week
func (r *MemoryGameStatRepository) GetBySeasonWeek(_ context.Context, season, week int) ([]*models.GameStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.GameStat
	for key, g := range r.games {
		if key.season == season && key.week == week {
			out = append(out, cloneGameStat(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerName < out[j].PlayerName })
	return out, nil
}

// ListPlayerIDs returns the distinct players with recorded games
func (r *MemoryGameStatRepository) ListPlayerIDs(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]bool)
	var ids []int64
	for key := range r.games {
		if !seen[key.player] {
			seen[key.player] = true
			ids = append(ids, key.player)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func cloneGameStat(g *models.GameStat) *models.GameStat {
	c := *g
	c.Stats = make(map[string]float64, len(g.Stats))
	for k, v := range g.Stats {
		c.Stats[k] = v
	}
	return &c
}

// MemoryRollingStatsRepository implements RollingStatsRepository in memory
type MemoryRollingStatsRepository struct {
	mu    sync.RWMutex
	stats map[int64]*models.RollingStats
}

// NewMemoryRollingStatsRepository creates an empty in-memory rolling stats repository
func NewMemoryRollingStatsRepository() *MemoryRollingStatsRepository {
	return &MemoryRollingStatsRepository{stats: make(map[int64]*models.RollingStats)}
}

// Upsert stores the latest rolling summary for a player
func (r *MemoryRollingStatsRepository) Upsert(_ context.Context, stats *models.RollingStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats.UpdatedAt = time.Now().UTC()
	r.stats[stats.PlayerExternalID] = cloneRolling(stats)
	return nil
}

// GetByPlayer retrieves the rolling summary for a player
func (r *MemoryRollingStatsRepository) GetByPlayer(_ context.Context, externalID int64) (*models.RollingStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stats[externalID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneRolling(s), nil
}

// GetAll retrieves every rolling summary ordered by player name
func (r *MemoryRollingStatsRepository) GetAll(_ context.Context) ([]*models.RollingStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.RollingStats, 0, len(r.stats))
	for _, s := range r.stats {
		out = append(out, cloneRolling(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerName < out[j].PlayerName })
	return out, nil
}

func cloneRolling(s *models.RollingStats) *models.RollingStats {
	c := *s
	c.Stats = make(map[string]models.StatSummary, len(s.Stats))
	for k, v := range s.Stats {
		c.Stats[k] = v
	}
	return &c
}

// MemoryPropRepository implements PropRepository in memory
type MemoryPropRepository struct {
	mu    sync.RWMutex
	props []*models.PropLine
}

// NewMemoryPropRepository creates an empty in-memory prop repository
func NewMemoryPropRepository() *MemoryPropRepository {
	return &MemoryPropRepository{}
}

// ReplaceForDate swaps the stored lines for date and bookmaker with props
func (r *MemoryPropRepository) ReplaceForDate(_ context.Context, date, bookmaker string, props []*models.PropLine) error {
	r.replace(date, bookmaker, props, func(*models.PropLine) bool { return true })
	return nil
}

// ReplaceForEvents swaps the stored lines of eventIDs for date and bookmaker with props
func (r *MemoryPropRepository) ReplaceForEvents(_ context.Context, date, bookmaker string, eventIDs []string, props []*models.PropLine) error {
	events := make(map[string]struct{}, len(eventIDs))
	for _, id := range eventIDs {
		events[id] = struct{}{}
	}
	r.replace(date, bookmaker, props, func(p *models.PropLine) bool {
		_, ok := events[p.EventID]
		return ok
	})
	return nil
}

func (r *MemoryPropRepository) replace(date, bookmaker string, props []*models.PropLine, stale func(*models.PropLine) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.props[:0]
	for _, p := range r.props {
		if p.PropDate != date || p.Bookmaker != bookmaker || !stale(p) {
			kept = append(kept, p)
		}
	}
	r.props = kept

	now := time.Now().UTC()
	for _, p := range props {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.CollectedAt.IsZero() {
			p.CollectedAt = now
		}
		p.PropDate = date
		p.Bookmaker = bookmaker
		c := *p
		r.props = append(r.props, &c)
	}
}

// GetByDate retrieves every stored line for a date
func (r *MemoryPropRepository) GetByDate(_ context.Context, date string) ([]*models.PropLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.PropLine
	for _, p := range r.props {
		if p.PropDate == date {
			c := *p
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PlayerName != out[j].PlayerName {
			return out[i].PlayerName < out[j].PlayerName
		}
		return out[i].MarketKey < out[j].MarketKey
	})
	return out, nil
}

// LatestDate returns the most recent date with stored props
func (r *MemoryPropRepository) LatestDate(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := ""
	for _, p := range r.props {
		if strings.Compare(p.PropDate, latest) > 0 {
			latest = p.PropDate
		}
	}
	if latest == "" {
		return "", models.ErrNotFound
	}
	return latest, nil
}
