package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jannat-miftahul/plantnet/pkg/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, Response{Data: map[string]string{"id": "p1"}})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Nil(t, resp.Error)
}

func TestWriteError_AppError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(w, r, apperrors.Unavailable("upstream down"), discardLogger())

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SERVICE_UNAVAILABLE", resp.Error.Code)
	assert.Equal(t, "upstream down", resp.Error.Message)
}

func TestWriteError_PlainErrorIsInternal(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(w, r, fmt.Errorf("boom"), discardLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	// Internal details never leak to the client.
	assert.NotContains(t, resp.Error.Message, "boom")
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(w, r, fmt.Errorf("lookup: %w", apperrors.ErrNotFound), discardLogger())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a", "b"}, 25, 2, 10)

	assert.Equal(t, 25, resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)

	last := NewPaginatedResponse([]string{"z"}, 25, 3, 10)
	assert.False(t, last.HasNext)
}

func TestNewPaginatedResponse_NilDataEncodesAsEmptyArray(t *testing.T) {
	resp := NewPaginatedResponse[string](nil, 0, 1, 10)
	require.NotNil(t, resp.Data)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"data":[]`)
}
