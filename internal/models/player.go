package models

import (
	"strings"
	"time"
)

// Player is a tracked NFL player record
type Player struct {
	ID         int64     `db:"id" json:"id"`
	ExternalID *int64    `db:"external_id" json:"external_id,omitempty"`
	Name       string    `db:"name" json:"name" validate:"required,max=120"`
	Team       string    `db:"team" json:"team" validate:"max=10"`
	Position   string    `db:"position" json:"position" validate:"max=10"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Normalize trims whitespace and upper-cases team and position codes
func (p *Player) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Team = strings.ToUpper(strings.TrimSpace(p.Team))
	p.Position = strings.ToUpper(strings.TrimSpace(p.Position))
}

// Validate checks the fields required to persist a player
func (p *Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrPlayerNameRequired
	}
	return nil
}
