package domainerrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "docket/pkg/domain-errors"
)

func TestIs(t *testing.T) {
	err := dErrors.New(dErrors.CodeNotFound, "document not found")
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	assert.False(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	assert.False(t, dErrors.Is(errors.New("plain"), dErrors.CodeNotFound))
}

func TestIsThroughWrapping(t *testing.T) {
	inner := dErrors.New(dErrors.CodeStorageUnavailable, "blob write failed")
	outer := fmt.Errorf("upload: %w", inner)
	assert.True(t, dErrors.Is(outer, dErrors.CodeStorageUnavailable))
	assert.Equal(t, dErrors.CodeStorageUnavailable, dErrors.CodeOf(outer))
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(errors.New("boom")))
}

func TestMeta(t *testing.T) {
	err := dErrors.New(dErrors.CodeInvalidJurisdiction, "unknown jurisdictions").
		WithMeta("missing_ids", []string{"a", "b"})
	meta := dErrors.MetaOf(err)
	assert.Equal(t, []string{"a", "b"}, meta["missing_ids"])
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeBadRequest:          http.StatusBadRequest,
		dErrors.CodeUnsupportedType:     http.StatusBadRequest,
		dErrors.CodeInvalidJurisdiction: http.StatusBadRequest,
		dErrors.CodeFileTooLarge:        http.StatusRequestEntityTooLarge,
		dErrors.CodeUnauthorized:        http.StatusUnauthorized,
		dErrors.CodeTokenReused:         http.StatusUnauthorized,
		dErrors.CodeNotFound:            http.StatusNotFound,
		dErrors.CodeConflict:            http.StatusConflict,
		dErrors.CodeStorageUnavailable:  http.StatusServiceUnavailable,
		dErrors.CodeInternal:            http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, dErrors.ToHTTPStatus(code), string(code))
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := dErrors.Wrap(cause, dErrors.CodeStorageUnavailable, "blob store")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
