package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsAppError_Wrapped(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("compute report: %w", NewUpstreamLookup("ledger", cause))

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, CodeUpstreamLookup, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, GetHTTPStatus(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "ledger", appErr.Details["lookup"])
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewInvalidPeriod("bad month"), CodeInvalidPeriod))
	assert.False(t, HasCode(NewMissingFilter("location_id"), CodeInvalidPeriod))
	assert.False(t, HasCode(errors.New("plain"), CodeInvalidPeriod))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := NewValidation("invalid query").WithDetail("field", "month")
	assert.Equal(t, "month", err.Details["field"])
	assert.Equal(t, "VALIDATION_ERROR: invalid query", err.Error())
}
