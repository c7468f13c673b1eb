package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/nfl-bets/internal/database"
	"github.com/yourusername/nfl-bets/internal/models"
)

// PostgresPropRepository implements PropRepository for PostgreSQL
type PostgresPropRepository struct {
	db *database.DB
}

// NewPostgresPropRepository creates a new prop line repository
func NewPostgresPropRepository(db *database.DB) PropRepository {
	return &PostgresPropRepository{db: db}
}

// ReplaceForDate deletes the stored lines for date and bookmaker and inserts props in one transaction
func (r *PostgresPropRepository) ReplaceForDate(ctx context.Context, date, bookmaker string, props []*models.PropLine) error {
	return r.replace(ctx, date, bookmaker, props,
		`DELETE FROM player_props WHERE prop_date = $1::date AND bookmaker = $2`, date, bookmaker)
}

// ReplaceForEvents deletes the stored lines of eventIDs for date and bookmaker and
// inserts props in one transaction. Lines of other events are kept.
func (r *PostgresPropRepository) ReplaceForEvents(ctx context.Context, date, bookmaker string, eventIDs []string, props []*models.PropLine) error {
	return r.replace(ctx, date, bookmaker, props,
		`DELETE FROM player_props WHERE prop_date = $1::date AND bookmaker = $2 AND event_id = ANY($3)`, date, bookmaker, eventIDs)
}

func (r *PostgresPropRepository) replace(ctx context.Context, date, bookmaker string, props []*models.PropLine, deleteSQL string, args ...any) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		if _, err := conn.Exec(ctx, deleteSQL, args...); err != nil {
			return fmt.Errorf("failed to clear props: %w", err)
		}

		batch := &pgx.Batch{}
		for _, p := range props {
			if p.ID == uuid.Nil {
				p.ID = uuid.New()
			}
			if p.CollectedAt.IsZero() {
				p.CollectedAt = time.Now().UTC()
			}
			p.PropDate = date
			var point *string
			if p.Point.Valid {
				s := p.Point.Decimal.String()
				point = &s
			}
			batch.Queue(`
				INSERT INTO player_props (
					id, event_id, home_team, away_team, commence_time, player_name, market_key,
					outcome, price, point, bookmaker, last_update, prop_date, collected_at
				)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10::numeric, $11, $12, $13::date, $14)`,
				p.ID, p.EventID, p.HomeTeam, p.AwayTeam, p.CommenceTime, p.PlayerName, p.MarketKey,
				p.Outcome, p.Price.String(), point, bookmaker, p.LastUpdate, date, p.CollectedAt,
			)
		}

		tx, ok := conn.(pgx.Tx)
		if !ok {
			return fmt.Errorf("prop replacement requires a transaction")
		}
		results := tx.SendBatch(ctx, batch)
		for range props {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to insert prop: %w", err)
			}
		}
		return results.Close()
	})
}

// GetByDate retrieves every stored line for a date
func (r *PostgresPropRepository) GetByDate(ctx context.Context, date string) ([]*models.PropLine, error) {
	query := `
		SELECT id, event_id, home_team, away_team, commence_time, player_name, market_key, outcome,
		       price::text, point::text, bookmaker, last_update, prop_date::text, collected_at
		FROM player_props
		WHERE prop_date = $1::date
		ORDER BY player_name, market_key, point, outcome
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query props: %w", err)
	}
	defer rows.Close()

	var props []*models.PropLine
	for rows.Next() {
		p := &models.PropLine{}
		var price string
		var point *string
		err := rows.Scan(
			&p.ID, &p.EventID, &p.HomeTeam, &p.AwayTeam, &p.CommenceTime, &p.PlayerName, &p.MarketKey,
			&p.Outcome, &price, &point, &p.Bookmaker, &p.LastUpdate, &p.PropDate, &p.CollectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prop: %w", err)
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid stored price %q: %w", price, err)
		}
		if point != nil {
			d, err := decimal.NewFromString(*point)
			if err != nil {
				return nil, fmt.Errorf("invalid stored point %q: %w", *point, err)
			}
			p.Point = decimal.NewNullDecimal(d)
		}
		props = append(props, p)
	}

	return props, rows.Err()
}

// LatestDate returns the most recent date with stored props
func (r *PostgresPropRepository) LatestDate(ctx context.Context) (string, error) {
	var date *string
	err := r.db.Conn(ctx).QueryRow(ctx, `SELECT MAX(prop_date)::text FROM player_props`).Scan(&date)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("failed to get latest prop date: %w", err)
	}
	if date == nil {
		return "", models.ErrNotFound
	}
	return *date, nil
}
