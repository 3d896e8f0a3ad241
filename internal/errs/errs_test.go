package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	err := Business(CodeOptimizationFailed, "no feasible plan")
	assert.Equal(t, "BUSINESS_001: no feasible plan", err.Error())

	wrapped := err.Wrap(errors.New("boom"))
	assert.Equal(t, "BUSINESS_001: no feasible plan: boom", wrapped.Error())
}

func TestAppError_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Client(CodeInvalidItem, "bad").HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, Business(CodeEmptyItemList, "empty").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Internal("oops", errors.New("x")).HTTPStatus())
}

func TestAppError_Details(t *testing.T) {
	err := Client(CodeInvalidItem, "bad length").
		WithDetail("field", "length").
		WithDetail("index", "3")
	assert.Equal(t, map[string]string{"field": "length", "index": "3"}, err.Details)
}

func TestAppError_UnwrapChain(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("cannot save", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestAs_ExtractsFromWrappedChain(t *testing.T) {
	inner := Business(CodeInvalidCuttingParameters, "piece too long")
	outer := fmt.Errorf("packing: %w", inner)

	got, ok := As(outer)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidCuttingParameters, got.Code)
}

func TestFrom_UnknownErrorBecomesInternal(t *testing.T) {
	got := From(errors.New("surprise"))
	assert.Equal(t, CodeInternal, got.Code)
	assert.Equal(t, ClassSystem, got.Class)

	assert.Nil(t, From(nil))

	app := Client(CodeInvalidRequest, "bad")
	assert.Same(t, app, From(app))
}
