package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pricingdomain "github.com/smallbiznis/enrolla/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/enrolla/internal/quote/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

// ErrorHandlingMiddleware renders the last gin error as a JSON payload when
// no handler has written a response yet.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: err.Error(),
		}
	case errors.Is(err, quotedomain.ErrProductNotFound),
		errors.Is(err, quotedomain.ErrInvalidProduct):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "product not found",
		}
	case isPricingError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "pricing_error",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isPricingError(err error) bool {
	switch {
	case errors.Is(err, pricingdomain.ErrUnknownProductType),
		errors.Is(err, pricingdomain.ErrUnknownContributionKind),
		errors.Is(err, pricingdomain.ErrRoleNotCovered),
		errors.Is(err, pricingdomain.ErrRoleRateMissing),
		errors.Is(err, pricingdomain.ErrNoRateForAge),
		errors.Is(err, pricingdomain.ErrDependentNotInsurable),
		errors.Is(err, pricingdomain.ErrUnknownBenefit),
		errors.Is(err, pricingdomain.ErrSelectionMismatch):
		return true
	default:
		return false
	}
}
