package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
)

func TestFindPlayerRef(t *testing.T) {
	st := game.State{Players: []game.Player{
		{ID: "p-1", Name: "Ann"},
		{ID: "p-2", Name: "Ben"},
	}}

	id, err := findPlayerRef(&st, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "p-2", id)

	id, err = findPlayerRef(&st, "Ann")
	require.NoError(t, err)
	assert.Equal(t, "p-1", id)

	id, err = findPlayerRef(&st, "  Ann ")
	require.NoError(t, err)
	assert.Equal(t, "p-1", id, "references are normalized before name matching")

	_, err = findPlayerRef(&st, "Zed")
	assert.True(t, engine.IsValidation(err))
}
