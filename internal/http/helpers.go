package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/mrlokans/librarian/internal/errors"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, ids)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: string(domainerrors.CodeInvalidInput)})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  string(domainerrors.CodeInternal),
	})
}

// respondDomainError maps a service error to its HTTP status. Errors
// without a domain code are treated as internal.
func respondDomainError(c *gin.Context, err error, context string) {
	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) || domainErr.Code == domainerrors.CodeInternal {
		respondInternalError(c, err, context)
		return
	}

	if domainErr.Code == domainerrors.CodeUpstreamUnavailable {
		log.Printf("Upstream error (%s): %v", context, err)
	}
	c.JSON(domainErr.HTTPStatus(), ErrorResponse{
		Error:   domainErr.Message,
		Code:    string(domainErr.Code),
		Details: domainErr.Details,
	})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalBool reads a boolean query parameter. The second result is
// false when the parameter is absent; the third is false after a 400 was sent.
func parseOptionalBool(c *gin.Context, paramName string) (value bool, present bool, ok bool) {
	raw, exists := c.GetQuery(paramName)
	if !exists || raw == "" {
		return false, false, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return false, true, false
	}
	return value, true, true
}

// bindJSON decodes the request body or responds with a 400.
func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
