package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/piwi3910/barcut/internal/errs"
	"github.com/piwi3910/barcut/internal/model"
)

// Validation bounds for demand rows.
const (
	MinCutLength = 10.0    // mm
	MaxCutLength = 20000.0 // mm
	MaxQuantity  = 1000
)

// NormalizeOptions controls failure behavior of the normalizer.
type NormalizeOptions struct {
	// CollectErrors switches from fail-fast (first invalid row aborts the
	// batch) to partial acceptance: all rows are checked, valid ones are
	// returned together with the full error list.
	CollectErrors bool
}

// Normalize converts raw demand rows into validated Items. It is a pure
// transform: no clamping, no silent drops. In fail-fast mode the returned
// error describes the first invalid row; in collect mode the second return
// value lists every invalid row and the error is nil unless no row survived.
func Normalize(rows []model.ItemInput, opts NormalizeOptions) ([]model.Item, []*errs.AppError, error) {
	items := make([]model.Item, 0, len(rows))
	var rowErrs []*errs.AppError

	for i, row := range rows {
		if err := validateRow(row, i); err != nil {
			if !opts.CollectErrors {
				return nil, nil, err
			}
			rowErrs = append(rowErrs, err)
			continue
		}
		items = append(items, model.Item{
			ID:          uuid.New().String()[:8],
			Profile:     strings.TrimSpace(row.Profile),
			Length:      row.Length,
			Quantity:    row.Quantity,
			Tolerance:   row.Tolerance,
			Priority:    row.Priority,
			WorkOrderID: strings.TrimSpace(row.WorkOrderID),
			Color:       strings.TrimSpace(row.Color),
		})
	}

	if len(items) == 0 && len(rowErrs) > 0 {
		return nil, rowErrs, errs.Client(errs.CodeInvalidItem, "no valid items in batch").
			WithDetail("invalid_rows", strconv.Itoa(len(rowErrs)))
	}
	return items, rowErrs, nil
}

// validateRow checks one raw row against the documented bounds and returns a
// CLIENT-class error naming the offending field and row index.
func validateRow(row model.ItemInput, index int) *errs.AppError {
	fail := func(field, msg string) *errs.AppError {
		return errs.Client(errs.CodeInvalidItem, msg).
			WithDetail("field", field).
			WithDetail("index", strconv.Itoa(index))
	}

	if strings.TrimSpace(row.Profile) == "" {
		return fail("profile_type", "profile type is required")
	}
	if row.Length < MinCutLength || row.Length > MaxCutLength {
		return fail("length", fmt.Sprintf("length %.1fmm out of range [%.0f, %.0f]", row.Length, MinCutLength, MaxCutLength))
	}
	if row.Quantity < 1 || row.Quantity > MaxQuantity {
		return fail("quantity", fmt.Sprintf("quantity %d out of range [1, %d]", row.Quantity, MaxQuantity))
	}
	if row.Tolerance < 0 {
		return fail("tolerance", "tolerance cannot be negative")
	}
	if row.Priority < 0 {
		return fail("priority", "priority cannot be negative")
	}
	return nil
}

// demand is one unit-length piece expanded from an item, retaining a
// back-reference to its source for traceability.
type demand struct {
	length        float64
	originalIndex int // index into the normalized item list
	workOrderID   string
}

// expandDemands flattens items into individual unit demands: an item with
// quantity N produces N demands pointing back at the same original index.
func expandDemands(items []model.Item) []demand {
	var demands []demand
	for i, it := range items {
		for q := 0; q < it.Quantity; q++ {
			demands = append(demands, demand{
				length:        it.Length,
				originalIndex: i,
				workOrderID:   it.WorkOrderID,
			})
		}
	}
	return demands
}
