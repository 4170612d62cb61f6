package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("book %d not found", 42)

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))
	assert.Equal(t, "book 42 not found", err.Error())
}

func TestError_WrappedChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeUpstreamUnavailable, "lookup failed")

	assert.True(t, Is(err, ErrUpstreamUnavailable))
	assert.True(t, Is(err, cause))
	assert.Equal(t, "lookup failed: connection refused", err.Error())
}

func TestError_WithDetailsKeepsCode(t *testing.T) {
	err := Conflict("book is not available").WithDetails(map[string]any{"book_id": uint(7)})

	assert.Equal(t, CodeConflict, err.Code)
	assert.Equal(t, map[string]any{"book_id": uint(7)}, err.Details)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus())
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeUpstreamUnavailable, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInvalidInput, CodeOf(InvalidInput("isbn is required")))
	assert.Equal(t, CodeInternal, CodeOf(stderrors.New("plain")))
}
