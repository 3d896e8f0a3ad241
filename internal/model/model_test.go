package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeWaste_Thresholds(t *testing.T) {
	cases := []struct {
		remaining float64
		want      WasteCategory
	}{
		{0, WasteMinimal},
		{49.9, WasteMinimal},
		{50, WasteSmall},
		{149.9, WasteSmall},
		{150, WasteMedium},
		{299.9, WasteMedium},
		{300, WasteLarge},
		{499.9, WasteLarge},
		{500, WasteExcessive},
		{5000, WasteExcessive},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CategorizeWaste(tc.remaining), "remaining=%.1f", tc.remaining)
	}
}

func TestWasteCategory_String(t *testing.T) {
	assert.Equal(t, "minimal", WasteMinimal.String())
	assert.Equal(t, "excessive", WasteExcessive.String())
}

func TestConstraints_Usable(t *testing.T) {
	c := Constraints{SafetyMargin: 10}
	assert.Equal(t, 5980.0, c.Usable(6000))

	// A margin larger than the bar never yields a negative usable length.
	c.SafetyMargin = 600
	assert.Equal(t, 0.0, c.Usable(1000))
}

func TestDefaultConstraints(t *testing.T) {
	c := DefaultConstraints()
	assert.Equal(t, 3.5, c.KerfWidth)
	assert.Equal(t, 2.0, c.SafetyMargin)
	assert.Equal(t, 75.0, c.MinScrapLength)
	assert.Equal(t, 50, c.MaxCutsPerStock)
}

func TestCut_PieceLengthAndSegmentCount(t *testing.T) {
	cut := Cut{Segments: []Segment{
		{Length: 1000, Quantity: 3},
		{Length: 250, Quantity: 2},
	}}
	assert.Equal(t, 3500.0, cut.PieceLength())
	assert.Equal(t, 5, cut.SegmentCount())
}

func TestNewItem_GeneratesShortID(t *testing.T) {
	a := NewItem("AL-6060", 1000, 2)
	b := NewItem("AL-6060", 1000, 2)
	assert.Len(t, a.ID, 8)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAlgorithm_Valid(t *testing.T) {
	for _, a := range Algorithms {
		assert.True(t, a.Valid())
	}
	assert.False(t, Algorithm("branch-and-bound").Valid())
	assert.False(t, Algorithm("").Valid())
}
