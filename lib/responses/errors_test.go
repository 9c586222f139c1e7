package responses

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitErrorsNotAllowedForSentry(t *testing.T) {
	rateLimited := echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	isAllowed := isErrAllowedForSentry(rateLimited)
	assert.False(t, isAllowed)
}

func TestOversizedRequestErrorsNotAllowedForSentry(t *testing.T) {
	tooLarge := echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")

	isAllowed := isErrAllowedForSentry(tooLarge)
	assert.False(t, isAllowed)
}

func TestOtherHTTPErrorsAllowedForSentry(t *testing.T) {
	badRequest := echo.NewHTTPError(http.StatusBadRequest, "bad request")

	isAllowed := isErrAllowedForSentry(badRequest)
	assert.True(t, isAllowed)
}

func TestNonHTTPErrorsAllowedForSentry(t *testing.T) {
	err := errors.New("random error")

	isAllowed := isErrAllowedForSentry(err)
	assert.True(t, isAllowed)
}
