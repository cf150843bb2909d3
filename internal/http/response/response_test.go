package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chapterforge/chapterforge-server/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, testLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Error)
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccepted(t *testing.T) {
	w := httptest.NewRecorder()

	Accepted(w, map[string]string{"run_id": "run-abc"}, testLogger())

	assert.Equal(t, http.StatusAccepted, w.Code)

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestError_Generic(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusInternalServerError, "something went wrong", testLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Equal(t, "something went wrong", result.Error)
}

func TestStatusCodeBoundary(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		expectedSuccess bool
	}{
		{"200 OK", 200, true},
		{"202 Accepted", 202, true},
		{"399 Custom Success", 399, true},
		{"400 Bad Request", 400, false},
		{"404 Not Found", 404, false},
		{"500 Internal Server Error", 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSON(w, tt.status, nil, testLogger())

			var result Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.expectedSuccess, result.Success)
		})
	}
}

func TestHandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", apperrors.NotFound("item ep1 not in catalog"), http.StatusNotFound, "item ep1 not in catalog"},
		{"media absent", apperrors.MediaAbsent("media file absent"), http.StatusNotFound, "media file absent"},
		{"missing path", apperrors.MissingPath("no path"), http.StatusUnprocessableEntity, "no path"},
		{"conflict", apperrors.Conflict("run in progress"), http.StatusConflict, "run in progress"},
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest, "bad input"},
		{"write failed", apperrors.WriteFailed("disk full"), http.StatusInternalServerError, "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			HandleError(w, tt.err, testLogger())

			assert.Equal(t, tt.wantStatus, w.Code)

			var result Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantBody, result.Error)
		})
	}
}

func TestHandleError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("boom"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "internal server error", result.Error)
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	w := httptest.NewRecorder()

	wrapped := apperrors.Wrap(errors.New("stat failed"), apperrors.CodeWriteFailed, "stat /media/ep1.mkv")
	HandleError(w, wrapped, testLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "stat /media/ep1.mkv", result.Error)
}
