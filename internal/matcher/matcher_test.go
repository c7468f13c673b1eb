package matcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "mahomes patrick", Normalize("Patrick Mahomes"))
	assert.Equal(t, "chase ja marr", Normalize("Ja'Marr Chase"))
	assert.Equal(t, "amon brown ra st", Normalize("  Amon-Ra St. Brown "))
	assert.Equal(t, "", Normalize("..."))
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100.0, TokenSortRatio("Mahomes Patrick", "patrick mahomes"))
	assert.Equal(t, 0.0, TokenSortRatio("", ""))
	assert.Equal(t, 100.0, TokenSortRatio("Amon-Ra St. Brown", "amon ra st brown"))

	// "josh allen" vs "josh allan": one substitution costs 2 over 20 runes.
	assert.InDelta(t, 90.0, TokenSortRatio("Josh Allen", "Josh Allan"), 1e-9)
	assert.Less(t, TokenSortRatio("Josh Allen", "Josh Jacobs"), DefaultThreshold)
}

func candidates() []Candidate {
	return []Candidate{
		{ID: 1, Name: "Patrick Mahomes"},
		{ID: 2, Name: "Ja'Marr Chase"},
		{ID: 3, Name: "Josh Allen"},
		{ID: 4, Name: "Josh Jacobs"},
		{ID: 5, Name: "Kenneth Walker III"},
	}
}

func TestIndexExactMatch(t *testing.T) {
	ix := NewIndex(candidates(), DefaultThreshold)
	assert.Equal(t, 5, ix.Len())

	res, ok := ix.Match("  josh ALLEN")
	require.True(t, ok)
	assert.True(t, res.Exact)
	assert.Equal(t, int64(3), res.ID)
}

func TestIndexFuzzyMatch(t *testing.T) {
	ix := NewIndex(candidates(), DefaultThreshold)

	res, ok := ix.Match("Jamarr Chase")
	require.True(t, ok)
	assert.False(t, res.Exact)
	assert.Equal(t, int64(2), res.ID)
	assert.GreaterOrEqual(t, res.Score, DefaultThreshold)

	res, ok = ix.Match("Kenneth Walker")
	require.True(t, ok)
	assert.Equal(t, int64(5), res.ID)
}

func TestIndexNoMatchReportsBestScore(t *testing.T) {
	ix := NewIndex(candidates(), DefaultThreshold)

	res, ok := ix.Match("Travis Kelce")
	assert.False(t, ok)
	assert.Less(t, res.Score, DefaultThreshold)

	_, ok = ix.Match("")
	assert.False(t, ok)
}

func TestCachedIndexReloadsAfterInvalidate(t *testing.T) {
	calls := 0
	load := func(context.Context) ([]Candidate, error) {
		calls++
		return candidates(), nil
	}
	c := NewCachedIndex(load, DefaultThreshold, time.Minute)

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	c.Invalidate()
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCachedIndexLoadError(t *testing.T) {
	c := NewCachedIndex(func(context.Context) ([]Candidate, error) {
		return nil, errors.New("db down")
	}, DefaultThreshold, time.Minute)

	_, err := c.Get(context.Background())
	assert.ErrorContains(t, err, "db down")
}
