package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/mrlokans/librarian/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseIDParam_Valid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "123"}}

	id, ok := parseIDParam(c, "id")

	assert.True(t, ok)
	assert.Equal(t, uint(123), id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseIDParam_Invalid(t *testing.T) {
	for _, value := range []string{"abc", "-1", "0"} {
		t.Run(value, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: value}}

			id, ok := parseIDParam(c, "id")

			assert.False(t, ok)
			assert.Equal(t, uint(0), id)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "invalid id")
		})
	}
}

func TestParseOptionalBool(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?available=false", nil)

	value, present, ok := parseOptionalBool(c, "available")
	assert.True(t, ok)
	assert.True(t, present)
	assert.False(t, value)

	c.Request = httptest.NewRequest("GET", "/", nil)
	_, present, ok = parseOptionalBool(c, "available")
	assert.True(t, ok)
	assert.False(t, present)

	c.Request = httptest.NewRequest("GET", "/?available=maybe", nil)
	_, _, ok = parseOptionalBool(c, "available")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", domainerrors.NotFoundf("book %d not found", 7), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", domainerrors.Conflict("book 7 is not available"), http.StatusConflict, "CONFLICT"},
		{"invalid", domainerrors.InvalidInput("bad"), http.StatusBadRequest, "INVALID_INPUT"},
		{"upstream", domainerrors.UpstreamUnavailablef("down"), http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{"plain", errors.New("disk I/O error"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondDomainError(c, tt.err, "test")

			assert.Equal(t, tt.wantCode, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Code)
		})
	}
}

func TestRespondDomainError_HidesInternalMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondDomainError(c, errors.New("constraint failed: secret table"), "test")

	assert.NotContains(t, w.Body.String(), "secret table")
}
