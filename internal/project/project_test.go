package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/barcut/internal/model"
)

func TestAppConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultAppConfig()
	cfg.ListenAddr = ":9999"
	cfg.Constraints.KerfWidth = 2.4
	require.NoError(t, SaveAppConfig(path, cfg))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), cfg)
}

func TestAppConfig_RememberPlan(t *testing.T) {
	cfg := DefaultAppConfig()
	for i := 0; i < 12; i++ {
		cfg.RememberPlan(filepath.Join("plans", string(rune('a'+i))))
	}
	assert.Len(t, cfg.RecentPlans, 10, "recent list is capped")

	readded := cfg.RecentPlans[5]
	cfg.RememberPlan(readded)
	assert.Len(t, cfg.RecentPlans, 10, "re-adding an entry moves it, not duplicates it")
	assert.Equal(t, readded, cfg.RecentPlans[0])
}

func TestPlan_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "wo-100.json")

	result := model.Result{
		Algorithm: model.AlgorithmFFD,
		Cuts: []model.Cut{{
			ID:          "bar-001",
			Profile:     "AL-6060",
			StockLength: 6000,
			Segments:    []model.Segment{{Length: 1000, Quantity: 5, Position: 0}},
		}},
		Metrics: model.Metrics{StockCount: 1, Efficiency: 0.83},
	}
	require.NoError(t, SavePlan(path, "WO-100", result))

	pf, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, 1, pf.Version)
	assert.Equal(t, "WO-100", pf.WorkOrderID)
	assert.Equal(t, result, pf.Result)
	assert.False(t, pf.SavedAt.IsZero())
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestOffcuts_SaveLoadMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offcuts.json")

	initial, err := LoadOffcuts(path)
	require.NoError(t, err)
	assert.Empty(t, initial, "missing store is empty, not an error")

	a := model.Offcut{ID: "aaaa1111", Profile: "AL-6060", Length: 480}
	b := model.Offcut{ID: "bbbb2222", Profile: "AL-6060", Length: 1980}
	require.NoError(t, SaveOffcuts(path, []model.Offcut{a}))

	loaded, err := LoadOffcuts(path)
	require.NoError(t, err)

	merged := MergeOffcuts(loaded, []model.Offcut{a, b})
	assert.Len(t, merged, 2, "duplicate IDs are skipped")

	require.NoError(t, SaveOffcuts(path, merged))
	final, err := LoadOffcuts(path)
	require.NoError(t, err)
	assert.Len(t, final, 2)
}

func TestConsumeOffcut(t *testing.T) {
	store := []model.Offcut{
		{ID: "aaaa1111", Length: 480},
		{ID: "bbbb2222", Length: 1980},
	}

	rest, ok := ConsumeOffcut(store, "aaaa1111")
	assert.True(t, ok)
	require.Len(t, rest, 1)
	assert.Equal(t, "bbbb2222", rest[0].ID)

	_, ok = ConsumeOffcut(rest, "missing")
	assert.False(t, ok)
}
