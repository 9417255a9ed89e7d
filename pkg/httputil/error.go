package httputil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/envelope-zero/payday/pkg/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidBody      = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrInvalidUUID      = errors.New("the specified resource ID is not a valid UUID")
	ErrMissingScope     = errors.New("the X-Family-ID and X-Actor-ID headers must be set to valid UUIDs")
	ErrTooManyEntries   = fmt.Errorf("lists must not have more than %d entries", MaxEntries)
)

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Error string `json:"error" example:"there is no payment with ID 4e743e94-6a4b-44d6-aba5-d77c87103ff7"`
}

// Status returns the HTTP status code for an error.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrCapacityExceeded), errors.Is(err, models.ErrAmountMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, models.ErrAttributionAmountNotPositive),
		errors.Is(err, models.ErrAttributionTypeInvalid),
		errors.Is(err, models.ErrAllocationCategoryNotUnique),
		errors.Is(err, models.ErrReferenceNotFound),
		errors.Is(err, models.ErrCurrencyInvalid),
		errors.Is(err, ErrRequestBodyEmpty),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidUUID),
		errors.Is(err, ErrMissingScope),
		errors.Is(err, ErrTooManyEntries):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler writes the error response for err.
//
// Server errors are logged with the request ID, their details are not sent to the client.
func ErrorHandler(c *gin.Context, err error) {
	status := Status(err)
	if status != http.StatusInternalServerError {
		NewError(c, status, err)
		return
	}

	log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	NewError(c, status, fmt.Errorf("%w. The request id is '%v', send this to your server administrator to help them finding the problem", models.ErrGeneral, requestid.Get(c)))
}

// NewError aborts the request with an error body.
func NewError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, HTTPError{
		Error: err.Error(),
	})
}
