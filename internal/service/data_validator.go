package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/probability"
)

// DataValidator validates collected stat rows and prop lines before they are stored
type DataValidator struct {
	validate *validator.Validate
	logger   *logrus.Entry
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{
		validate: validator.New(),
		logger:   logger.WithField("component", "validator"),
	}
}

// ValidateGameStat validates a game stat row for required fields and constraints
func (v *DataValidator) ValidateGameStat(gs *models.GameStat) []string {
	errors := v.structErrors(gs)

	for name, value := range gs.Stats {
		if value < 0 && !allowsNegative(name) {
			errors = append(errors, fmt.Sprintf("%s cannot be negative, got %v", name, value))
		}
	}

	if gs.Stat(models.StatPassingCompletions) > gs.Stat(models.StatPassingAttempts) {
		errors = append(errors, "passing_completions exceeds passing_attempts")
	}
	if gs.Stat(models.StatReceptions) > gs.Stat(models.StatTargets) && gs.Stat(models.StatTargets) > 0 {
		errors = append(errors, "receptions exceeds targets")
	}

	v.logRejected("game_stat", gs.PlayerName, errors)
	return errors
}

// ValidatePropLine validates a sportsbook line for required fields and constraints
func (v *DataValidator) ValidatePropLine(p *models.PropLine) []string {
	errors := v.structErrors(p)

	if p.Price.InexactFloat64() <= 1 {
		errors = append(errors, fmt.Sprintf("price must exceed 1.0 in decimal odds, got %s", p.Price))
	}

	side, ok := probability.SideForOutcome(p.Outcome)
	if !ok {
		errors = append(errors, fmt.Sprintf("unknown outcome %q", p.Outcome))
	} else if (side == probability.Over || side == probability.Under) && !p.Point.Valid {
		errors = append(errors, "over/under outcome requires a point")
	}

	if !strings.HasPrefix(p.MarketKey, "player_") {
		errors = append(errors, fmt.Sprintf("market %q is not a player prop", p.MarketKey))
	}

	v.logRejected("prop_line", p.PlayerName, errors)
	return errors
}

func (v *DataValidator) structErrors(s interface{}) []string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return out
}

func (v *DataValidator) logRejected(kind, player string, errors []string) {
	if len(errors) == 0 {
		return
	}
	v.logger.WithFields(logrus.Fields{
		"kind":   kind,
		"player": player,
		"errors": errors,
	}).Debug("Record rejected")
}

// Yardage totals and longest plays can be negative.
func allowsNegative(stat string) bool {
	switch stat {
	case models.StatRushingYards, models.StatReceivingYards, models.StatPassingYards,
		models.StatRushingLong, models.StatReceivingLong:
		return true
	default:
		return false
	}
}
