package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func TestNewMemoryRepositories(t *testing.T) {
	repos := NewMemoryRepositories()
	assert.NotNil(t, repos.Player)
	assert.NotNil(t, repos.GameStat)
	assert.NotNil(t, repos.RollingStats)
	assert.NotNil(t, repos.Prop)
}
