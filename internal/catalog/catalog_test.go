package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/barcut/internal/model"
)

func TestDefault_StandardBarLengths(t *testing.T) {
	c := Default()
	lengths := c.StockLengths("AL-6060")
	require.Len(t, lengths, 3)
	assert.Equal(t, 6000.0, lengths[0].Length)
	assert.Equal(t, 7000.0, lengths[2].Length)
}

func TestStatic_ProfileFilter(t *testing.T) {
	c := &Static{Entries: []model.StockLengthOption{
		{Profile: "AL-6060", Length: 6000},
		{Profile: "AL-4040", Length: 3000},
		{Length: 6500}, // universal
	}}

	got := c.StockLengths("al-6060")
	require.Len(t, got, 2, "profile match is case-insensitive, universal entries always apply")
	assert.Equal(t, 6000.0, got[0].Length)
	assert.Equal(t, 6500.0, got[1].Length)

	unknown := c.StockLengths("AL-9999")
	require.Len(t, unknown, 1)
	assert.Equal(t, 6500.0, unknown[0].Length)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")

	c := Default()
	c.Add(model.StockLengthOption{Profile: "AL-8080", Length: 4000, CostPerMm: 0.02})
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Entries, loaded.Entries)
}

func TestLoad_MissingFileCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Entries, c.Entries)

	// The default was persisted for next time.
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Entries, again.Entries)
}
