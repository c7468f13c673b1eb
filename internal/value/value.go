// Package value compares model probabilities with sportsbook prices and
// ranks the resulting betting opportunities.
package value

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/probability"
)

var one = decimal.NewFromInt(1)

// Candidate is a model probability paired with the sportsbook line it prices
type Candidate struct {
	Probability models.PropProbability
	Line        models.PropLine
}

// Evaluator filters and ranks value opportunities
type Evaluator struct {
	minEdge        float64
	minProbability float64
	maxResults     int
	removeVig      bool
}

// NewEvaluator creates an evaluator from the value configuration
func NewEvaluator(cfg config.ValueConfig) *Evaluator {
	return &Evaluator{
		minEdge:        cfg.MinEdge,
		minProbability: cfg.MinProbability,
		maxResults:     cfg.MaxResults,
		removeVig:      cfg.RemoveVig,
	}
}

// ImpliedProbability converts decimal odds to the bookmaker's implied probability.
// Prices at or below 1 carry no usable probability and return 0.
func ImpliedProbability(price decimal.Decimal) float64 {
	if price.LessThanOrEqual(one) {
		return 0
	}
	return one.DivRound(price, 8).InexactFloat64()
}

// RemoveVig normalizes a two-way market's implied probabilities so they sum to 1
func RemoveVig(a, b float64) (float64, float64) {
	total := a + b
	if total <= 0 {
		return a, b
	}
	return a / total, b / total
}

// ExpectedValue is the expected profit per unit stake at decimal odds price
func ExpectedValue(prob, price float64) float64 {
	return prob*price - 1
}

// Evaluate prices every candidate, keeps those clearing the edge and
// probability floors, and returns them ranked by expected value.
func (e *Evaluator) Evaluate(candidates []Candidate) []models.ValueOpportunity {
	implied := make([]float64, len(candidates))
	sides := make(map[string]float64, len(candidates))
	for i, c := range candidates {
		implied[i] = ImpliedProbability(c.Line.Price)
		sides[pairKey(c.Line, c.Line.Outcome)] = implied[i]
	}

	opportunities := make([]models.ValueOpportunity, 0, len(candidates))
	for i, c := range candidates {
		if implied[i] == 0 {
			continue
		}

		fair := implied[i]
		if e.removeVig {
			if other, ok := sides[pairKey(c.Line, opposite(c.Line.Outcome))]; ok {
				fair, _ = RemoveVig(implied[i], other)
			}
		}

		price := c.Line.PriceValue()
		prob := c.Probability.Probability
		opp := models.ValueOpportunity{
			PropProbability:    c.Probability,
			EventID:            c.Line.EventID,
			Bookmaker:          c.Line.Bookmaker,
			Price:              price,
			ImpliedProbability: round4(implied[i]),
			FairProbability:    round4(fair),
			Edge:               round4(prob - fair),
			ExpectedValue:      round4(ExpectedValue(prob, price)),
		}

		if opp.Edge < e.minEdge || prob < e.minProbability {
			continue
		}
		opportunities = append(opportunities, opp)
	}

	Rank(opportunities)
	if e.maxResults > 0 && len(opportunities) > e.maxResults {
		opportunities = opportunities[:e.maxResults]
	}
	return opportunities
}

// Rank sorts opportunities by expected value, then edge, then prop identity,
// and numbers them from 1.
func Rank(opportunities []models.ValueOpportunity) {
	sort.SliceStable(opportunities, func(i, j int) bool {
		a, b := opportunities[i], opportunities[j]
		if a.ExpectedValue != b.ExpectedValue {
			return a.ExpectedValue > b.ExpectedValue
		}
		if a.Edge != b.Edge {
			return a.Edge > b.Edge
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.PropName < b.PropName
	})
	for i := range opportunities {
		opportunities[i].Rank = i + 1
	}
}

func pairKey(line models.PropLine, outcome string) string {
	point := "-"
	if p, ok := line.PointValue(); ok {
		point = probability.FormatPoint(p)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		line.EventID, line.Bookmaker, strings.ToLower(line.PlayerName), line.MarketKey, point, strings.ToLower(outcome))
}

func opposite(outcome string) string {
	switch strings.ToLower(outcome) {
	case "over":
		return models.OutcomeUnder
	case "under":
		return models.OutcomeOver
	case "yes":
		return models.OutcomeNo
	case "no":
		return models.OutcomeYes
	default:
		return ""
	}
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
