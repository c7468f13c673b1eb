package probability

import (
	"math"
	"strings"

	"github.com/yourusername/nfl-bets/internal/models"
)

// StatKind groups stats by the shape of their game-to-game distribution
type StatKind int

const (
	KindUnknown StatKind = iota
	// KindCount covers volume stats such as attempts and receptions.
	KindCount
	// KindDiscrete covers low-count events such as touchdowns and interceptions.
	KindDiscrete
	// KindContinuous covers yardage and longest-play stats.
	KindContinuous
)

var statKinds = map[string]StatKind{
	models.StatRushingAttempts:      KindCount,
	models.StatPassingAttempts:      KindCount,
	models.StatPassingCompletions:   KindCount,
	models.StatReceptions:           KindCount,
	models.StatTargets:              KindCount,
	models.StatPassingTouchdowns:    KindDiscrete,
	models.StatRushingTouchdowns:    KindDiscrete,
	models.StatReceivingTouchdowns:  KindDiscrete,
	models.StatPassingInterceptions: KindDiscrete,
	models.StatPassingYards:         KindContinuous,
	models.StatRushingYards:         KindContinuous,
	models.StatReceivingYards:       KindContinuous,
	models.StatRushingLong:          KindContinuous,
	models.StatReceivingLong:        KindContinuous,
}

// secondaryYardage lists yardage stats that are incidental for a position and
// therefore zero-heavy.
var secondaryYardage = map[string][]string{
	"QB": {models.StatReceivingYards},
	"RB": {models.StatPassingYards},
	"FB": {models.StatPassingYards, models.StatReceivingYards},
	"WR": {models.StatRushingYards, models.StatPassingYards},
	"TE": {models.StatRushingYards, models.StatPassingYards},
}

// KindOf returns the stat category for name
func KindOf(stat string) StatKind {
	return statKinds[stat]
}

func isLongest(stat string) bool {
	return stat == models.StatRushingLong || stat == models.StatReceivingLong
}

// IsSecondaryStat reports whether stat is an incidental yardage stat for position
func IsSecondaryStat(position, stat string) bool {
	for _, s := range secondaryYardage[strings.ToUpper(position)] {
		if s == stat {
			return true
		}
	}
	return false
}

// Selector chooses a distribution from a stat's category and rolling shape
type Selector struct {
	MinSampleSize   int
	CountMaxCV      float64
	LowRateMean     float64
	NormalMinSample int
	NormalMaxCV     float64
	HighCV          float64
	NegBinMinSample int
	DefaultNBSample int
}

// DefaultSelector returns the standard selection thresholds
func DefaultSelector() Selector {
	return Selector{
		MinSampleSize:   3,
		CountMaxCV:      1.2,
		LowRateMean:     0.5,
		NormalMinSample: 10,
		NormalMaxCV:     0.8,
		HighCV:          1.5,
		NegBinMinSample: 8,
		DefaultNBSample: 10,
	}
}

// Select picks the distribution for stat given the player's position and summary
func (s Selector) Select(stat, position string, summary models.StatSummary) Distribution {
	n := summary.SampleSize
	if n < s.MinSampleSize {
		return InsufficientData
	}

	mean := summary.WeightedMean
	cv := math.Inf(1)
	if mean > 0 {
		cv = summary.WeightedStd / mean
	}

	var d Distribution
	switch KindOf(stat) {
	case KindCount:
		d = NegativeBinomial
		if cv <= s.CountMaxCV {
			d = Poisson
		}
	case KindDiscrete:
		d = NegativeBinomial
		if mean < s.LowRateMean {
			d = Poisson
		}
	case KindContinuous:
		switch {
		case isLongest(stat):
			d = NegativeBinomial
		case n >= s.NormalMinSample && cv <= s.NormalMaxCV:
			d = Normal
		case cv > s.HighCV:
			d = NegativeBinomial
		case n >= s.NegBinMinSample:
			d = NegativeBinomial
		default:
			d = Blended
		}
	default:
		d = Averaged
		if n >= s.DefaultNBSample {
			d = NegativeBinomial
		}
	}

	if (d == Normal || d == Blended) && IsSecondaryStat(position, stat) {
		return NegativeBinomial
	}
	return d
}
