package games

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	list, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, list)

	assert.Equal(t, "flip", list[0].ID)
	for _, g := range list {
		assert.NotEmpty(t, g.Name)
	}
}

func TestParse(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		list, err := Parse([]byte("- id: b\n  name: B\n- id: a\n  name: A\n"))
		require.NoError(t, err)

		require.Len(t, list, 2)
		assert.Equal(t, "b", list[0].ID)
		assert.Equal(t, "a", list[1].ID)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := Parse([]byte("- id: a\n- id: a\n"))
		assert.ErrorIs(t, err, ErrDuplicateGame)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := Parse([]byte("- name: nameless\n"))
		assert.ErrorIs(t, err, ErrMissingID)
	})

	t.Run("not a list", func(t *testing.T) {
		_, err := Parse([]byte("id: a\n"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: only\n  name: Only\n"), 0o600))

	list, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Game{{ID: "only", Name: "Only"}}, list)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	list, err = Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}
