// Package matcher resolves sportsbook player names to internal players using
// token-sort fuzzy matching.
package matcher

import (
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil/metrics"
)

// DefaultThreshold is the minimum token-sort ratio accepted as a match
const DefaultThreshold = 85.0

// indel distance: a substitution costs a deletion plus an insertion
var indel = &metrics.Levenshtein{
	CaseSensitive: true,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   2,
}

// Candidate is a name that can be matched
type Candidate struct {
	ID   int64
	Name string
}

// Result is the outcome of a lookup
type Result struct {
	Candidate
	Score float64
	Exact bool
}

// Normalize lower-cases name, turns punctuation into spaces, and sorts the tokens
func Normalize(name string) string {
	tokens := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSortRatio scores two names from 0 to 100 after normalizing token order and case
func TokenSortRatio(a, b string) float64 {
	return ratio(Normalize(a), Normalize(b))
}

func ratio(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 0
	}
	return 100 * (1 - float64(indel.Distance(a, b))/float64(total))
}

type entry struct {
	candidate Candidate
	sorted    string
}

// Index is an immutable lookup structure over a candidate set
type Index struct {
	threshold float64
	exact     map[string]Candidate
	entries   []entry
}

// NewIndex builds an index. Earlier candidates win ties.
func NewIndex(candidates []Candidate, threshold float64) *Index {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	ix := &Index{
		threshold: threshold,
		exact:     make(map[string]Candidate, len(candidates)),
		entries:   make([]entry, 0, len(candidates)),
	}
	for _, c := range candidates {
		key := exactKey(c.Name)
		if key == "" {
			continue
		}
		if _, dup := ix.exact[key]; !dup {
			ix.exact[key] = c
		}
		ix.entries = append(ix.entries, entry{candidate: c, sorted: Normalize(c.Name)})
	}
	return ix
}

// Len returns the number of indexed candidates
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Match returns the best candidate for name. A case-insensitive exact match
// wins outright; otherwise the highest token-sort ratio is accepted when it
// reaches the threshold. Score is populated even when ok is false.
func (ix *Index) Match(name string) (Result, bool) {
	if c, ok := ix.exact[exactKey(name)]; ok {
		return Result{Candidate: c, Score: 100, Exact: true}, true
	}

	query := Normalize(name)
	if query == "" {
		return Result{}, false
	}

	var best Result
	for _, e := range ix.entries {
		if score := ratio(query, e.sorted); score > best.Score {
			best = Result{Candidate: e.candidate, Score: score}
		}
	}
	return best, best.Score >= ix.threshold
}

func exactKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
