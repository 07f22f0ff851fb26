package exceptions

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNewCustomError(t *testing.T) {
	cause := errors.New("connection refused")

	err := ErrMongoDBFindDocument(cause)

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Contains(t, err.DevMessage, "connection refused")
	require.Len(t, err.Locations, 1)
	assert.Contains(t, err.Locations[0].FunctionName, "TestBuildNewCustomError")
	assert.ErrorIs(t, err, cause)
}

func TestNestedCustomErrorKeepsLocations(t *testing.T) {
	inner := ErrPatientNotExist(nil)
	outer := ErrServerProcess(inner)

	assert.Len(t, outer.Locations, 2)
	assert.Equal(t, http.StatusNotFound, StatusCodeOf(inner))
	assert.Equal(t, http.StatusInternalServerError, StatusCodeOf(errors.New("plain")))
}
