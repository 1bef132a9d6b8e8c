package gamedata

import (
	"context"
	"errors"
	"testing"

	"gamedash/api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	id     model.GameID
	bundle *Bundle
	err    error
}

func (s stubAdapter) Game() model.GameID { return s.id }

func (s stubAdapter) Fetch(context.Context, string, string) (*Bundle, error) {
	return s.bundle, s.err
}

func TestRegistryRequiresEveryGame(t *testing.T) {
	_, err := NewRegistry(stubAdapter{id: model.LeagueOfLegends})
	assert.Error(t, err)

	_, err = NewRegistry(DefaultAdapters(Config{})...)
	assert.NoError(t, err)

	dup := append(DefaultAdapters(Config{}), Placeholder{ID: model.CS2})
	_, err = NewRegistry(dup...)
	assert.Error(t, err)
}

func TestRegistryCollapsesErrors(t *testing.T) {
	adapters := []Adapter{
		stubAdapter{id: model.LeagueOfLegends, err: errors.New("connection refused")},
		stubAdapter{id: model.Steam, err: ErrMissingAPIKey},
		stubAdapter{id: model.ClashRoyale, bundle: &Bundle{}},
		Placeholder{ID: model.Valorant},
		Placeholder{ID: model.CS2},
		Placeholder{ID: model.Dota2},
	}

	r, err := NewRegistry(adapters...)
	require.NoError(t, err)

	for _, g := range []model.GameID{model.LeagueOfLegends, model.Steam, model.ClashRoyale} {
		_, err := r.Fetch(context.Background(), g, "someone", "")
		assert.ErrorIs(t, err, ErrPlayerNotFound, g)
	}

	b, err := r.Fetch(context.Background(), model.Valorant, "TenZ#0505", "na")
	require.NoError(t, err)
	assert.Equal(t, "TenZ#0505", b.Username)
	assert.True(t, b.WinRate >= 0 && b.WinRate <= 100)
}

func TestRegions(t *testing.T) {
	assert.True(t, ValidRegion(model.LeagueOfLegends, "kr"))
	assert.True(t, ValidRegion(model.LeagueOfLegends, ""))
	assert.False(t, ValidRegion(model.LeagueOfLegends, "moon"))
	assert.False(t, ValidRegion(model.Steam, "na"))
	assert.Equal(t, "na1", DefaultRegion(model.LeagueOfLegends))
	assert.Equal(t, "na", DefaultRegion(model.Valorant))

	for _, g := range model.Games {
		_, ok := Lookup(g)
		assert.True(t, ok, "catalog entry for %s", g)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(0, 0))
	assert.Equal(t, 33, percent(1, 3))
	assert.Equal(t, 67, percent(2, 3))
	assert.Equal(t, 100, percent(5, 5))
}
