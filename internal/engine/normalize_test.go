package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/barcut/internal/errs"
	"github.com/piwi3910/barcut/internal/model"
)

func validRow() model.ItemInput {
	return model.ItemInput{Profile: "AL-6060", Length: 1000, Quantity: 2}
}

func TestNormalize_ValidRows(t *testing.T) {
	rows := []model.ItemInput{
		{Profile: " AL-6060 ", Length: 1000, Quantity: 2, WorkOrderID: " WO-7 "},
		{Profile: "AL-4040", Length: 19999.5, Quantity: 1000},
	}

	items, rowErrs, err := Normalize(rows, NormalizeOptions{})
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, items, 2)

	assert.Equal(t, "AL-6060", items[0].Profile, "profile is trimmed")
	assert.Equal(t, "WO-7", items[0].WorkOrderID)
	assert.Len(t, items[0].ID, 8)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestNormalize_FailFastOnFirstInvalidRow(t *testing.T) {
	rows := []model.ItemInput{
		validRow(),
		{Profile: "AL-6060", Length: 5, Quantity: 1}, // below the 10mm floor
		{Profile: "", Length: 1000, Quantity: 1},
	}

	items, rowErrs, err := Normalize(rows, NormalizeOptions{})
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Nil(t, rowErrs)

	appErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidItem, appErr.Code)
	assert.Equal(t, "length", appErr.Details["field"])
	assert.Equal(t, "1", appErr.Details["index"])
}

func TestNormalize_CollectErrorsKeepsValidRows(t *testing.T) {
	rows := []model.ItemInput{
		validRow(),
		{Profile: "AL-6060", Length: 25000, Quantity: 1},
		{Profile: "AL-6060", Length: 1000, Quantity: 0},
		validRow(),
	}

	items, rowErrs, err := Normalize(rows, NormalizeOptions{CollectErrors: true})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Len(t, rowErrs, 2)
}

func TestNormalize_CollectErrorsAllInvalid(t *testing.T) {
	rows := []model.ItemInput{
		{Profile: "", Length: 1000, Quantity: 1},
		{Profile: "AL-6060", Length: 1000, Quantity: -1},
	}

	items, rowErrs, err := Normalize(rows, NormalizeOptions{CollectErrors: true})
	require.Error(t, err, "a batch with no surviving rows is an error")
	assert.Empty(t, items)
	assert.Len(t, rowErrs, 2)
}

func TestValidateRow_Bounds(t *testing.T) {
	cases := []struct {
		name  string
		row   model.ItemInput
		field string
	}{
		{"missing profile", model.ItemInput{Length: 1000, Quantity: 1}, "profile_type"},
		{"length too short", model.ItemInput{Profile: "P", Length: 9.9, Quantity: 1}, "length"},
		{"length too long", model.ItemInput{Profile: "P", Length: 20001, Quantity: 1}, "length"},
		{"zero quantity", model.ItemInput{Profile: "P", Length: 100, Quantity: 0}, "quantity"},
		{"quantity over cap", model.ItemInput{Profile: "P", Length: 100, Quantity: 1001}, "quantity"},
		{"negative tolerance", model.ItemInput{Profile: "P", Length: 100, Quantity: 1, Tolerance: -1}, "tolerance"},
		{"negative priority", model.ItemInput{Profile: "P", Length: 100, Quantity: 1, Priority: -2}, "priority"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateRow(tc.row, 0)
			require.NotNil(t, err)
			assert.Equal(t, tc.field, err.Details["field"])
		})
	}
}

func TestValidateRow_BoundaryValuesAccepted(t *testing.T) {
	assert.Nil(t, validateRow(model.ItemInput{Profile: "P", Length: 10, Quantity: 1}, 0))
	assert.Nil(t, validateRow(model.ItemInput{Profile: "P", Length: 20000, Quantity: 1000}, 0))
}

func TestExpandDemands(t *testing.T) {
	items := []model.Item{
		{Profile: "P", Length: 500, Quantity: 3, WorkOrderID: "WO-1"},
		{Profile: "P", Length: 750, Quantity: 1},
	}

	demands := expandDemands(items)
	require.Len(t, demands, 4)
	assert.Equal(t, 0, demands[0].originalIndex)
	assert.Equal(t, "WO-1", demands[2].workOrderID)
	assert.Equal(t, 750.0, demands[3].length)
	assert.Equal(t, 1, demands[3].originalIndex)
}
