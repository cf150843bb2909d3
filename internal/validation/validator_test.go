package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chapterforge/chapterforge-server/internal/errors"
	"github.com/chapterforge/chapterforge-server/internal/validation"
)

type testRequest struct {
	Force          bool `json:"force"`
	MaxParallelism int  `json:"maxParallelism" validate:"omitempty,gte=1,lte=64"`
	GapSeconds     int  `json:"gapSeconds" validate:"gte=0"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(testRequest{Force: true, MaxParallelism: 4}))
	assert.NoError(t, v.Validate(testRequest{}), "zero values pass with omitempty")
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name     string
		req      testRequest
		wantField string
	}{
		{
			name:      "parallelism below minimum",
			req:       testRequest{MaxParallelism: -2},
			wantField: "maxParallelism",
		},
		{
			name:      "parallelism above maximum",
			req:       testRequest{MaxParallelism: 500},
			wantField: "maxParallelism",
		},
		{
			name:      "negative gap",
			req:       testRequest{GapSeconds: -1},
			wantField: "gapSeconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *apperrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			// Field errors are keyed by JSON tag name.
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}
