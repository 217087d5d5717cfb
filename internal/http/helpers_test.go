package httpapi

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kna-archive-backend-go/internal/services"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 42, parseInt("42", 0))
	assert.Equal(t, 7, parseInt("", 7))
	assert.Equal(t, 7, parseInt("niet-een-getal", 7))
	assert.Equal(t, -3, parseInt("-3", 0))
}

func TestParseDate(t *testing.T) {
	value := "1987-11-02"
	parsed, err := parseDate(&value)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, 1987, parsed.Year())

	empty := "  "
	parsed, err = parseDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, parsed)

	parsed, err = parseDate(nil)
	require.NoError(t, err)
	assert.Nil(t, parsed)

	bad := "02-11-1987"
	_, err = parseDate(&bad)
	require.Error(t, err)
}

func TestMapServiceError(t *testing.T) {
	recorder := httptest.NewRecorder()
	handled := mapServiceError(recorder, services.ErrNotFound("Niet gevonden."))
	assert.True(t, handled)
	assert.Equal(t, 404, recorder.Code)

	recorder = httptest.NewRecorder()
	handled = mapServiceError(recorder, errors.New("database down"))
	assert.False(t, handled)

	assert.False(t, mapServiceError(httptest.NewRecorder(), nil))
}
