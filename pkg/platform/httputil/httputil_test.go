package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "docket/pkg/domain-errors"
)

func TestWriteErrorInternalOmitsDescription(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "internal", body["error"])
	assert.NotContains(t, body, "error_description")
}

func TestWriteErrorStorageUnavailableOmitsDescription(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.New(dErrors.CodeStorageUnavailable, "pgx: connection refused"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotContains(t, body, "error_description")
}

func TestWriteErrorBadRequestIncludesDescription(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "bad_request", body["error"])
	assert.Equal(t, "invalid input", body["error_description"])
}

func TestWriteErrorCarriesMeta(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.New(dErrors.CodeInvalidJurisdiction, "unknown ids").
		WithMeta("missing_ids", []string{"abc"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Meta map[string]any `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, []any{"abc"}, body.Meta["missing_ids"])
}

func TestWriteErrorUnknownErrorDefaultsToInternal(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
