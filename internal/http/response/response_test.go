package response

import (
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "github.com/24061269-star/um-lost-and-found/internal/errors"
	"github.com/24061269-star/um-lost-and-found/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var result Envelope
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	return result
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	JSON(w, http.StatusOK, map[string]string{"id": "item-1"}, logger)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	result := decodeEnvelope(t, w)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Error)
}

func TestJSON_SuccessFlagFollowsStatus(t *testing.T) {
	tests := []struct {
		status      int
		wantSuccess bool
	}{
		{http.StatusOK, true},
		{http.StatusCreated, true},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		JSON(w, tt.status, nil, nil)

		result := decodeEnvelope(t, w)
		assert.Equal(t, tt.wantSuccess, result.Success, "status %d", tt.status)
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	Error(w, http.StatusForbidden, "admin capability required", logger)

	assert.Equal(t, http.StatusForbidden, w.Code)

	result := decodeEnvelope(t, w)
	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Equal(t, "admin capability required", result.Error)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "domain forbidden",
			err:        domainerrors.Forbidden("admin capability required"),
			wantStatus: http.StatusForbidden,
			wantError:  "admin capability required",
		},
		{
			name:       "domain dependency maps to bad gateway",
			err:        domainerrors.Dependency("model request failed"),
			wantStatus: http.StatusBadGateway,
			wantError:  "model request failed",
		},
		{
			name:       "store not found",
			err:        store.ErrNotFound.WithMessage("item not found"),
			wantStatus: http.StatusNotFound,
			wantError:  "item not found",
		},
		{
			name:       "unknown error becomes 500",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			HandleError(w, tt.err, logger)

			assert.Equal(t, tt.wantStatus, w.Code)
			result := decodeEnvelope(t, w)
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantError, result.Error)
		})
	}
}

func TestEnvelope_OmitEmpty(t *testing.T) {
	data, err := json.Marshal(Envelope{Success: true, Data: "x"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\"error\":")
	assert.NotContains(t, string(data), "\"message\":")

	data, err = json.Marshal(Envelope{Success: false, Error: "boom"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\"data\":")
	assert.Contains(t, string(data), "\"error\":\"boom\"")
}
