package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nfl-bets/internal/models"
	"github.com/yourusername/nfl-bets/internal/repository"
)

func TestPlayerServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewPlayerService(repository.NewMemoryPlayerRepository())

	player := &models.Player{Name: "  Josh Allen ", Team: "buf", Position: "qb"}
	require.NoError(t, svc.Create(ctx, player))
	require.NotZero(t, player.ID)

	got, err := svc.Get(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, "Josh Allen", got.Name)
	assert.Equal(t, "BUF", got.Team)
	assert.Equal(t, "QB", got.Position)

	require.NoError(t, svc.Update(ctx, player.ID, &models.Player{Name: "Josh Allen", Team: "BUF", Position: "QB"}))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, player.ID))
	_, err = svc.Get(ctx, player.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPlayerServiceRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := NewPlayerService(repository.NewMemoryPlayerRepository())

	assert.ErrorIs(t, svc.Create(ctx, &models.Player{Name: "   "}), models.ErrPlayerNameRequired)

	_, err := svc.Get(ctx, 0)
	assert.ErrorIs(t, err, models.ErrInvalidID)
	assert.ErrorIs(t, svc.Update(ctx, -1, &models.Player{Name: "x"}), models.ErrInvalidID)
	assert.ErrorIs(t, svc.Delete(ctx, 0), models.ErrInvalidID)
	assert.ErrorIs(t, svc.Update(ctx, 42, &models.Player{Name: "Nobody"}), models.ErrNotFound)
}
