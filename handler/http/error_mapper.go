package httphandler

import (
	stdErrors "errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	domainErr "github.com/testforus12-cyber/backend-2-sub000/internal/domain/errors"
)

// mapDomainError translates domain sentinels into HTTP responses.
// Validation problems are 400, business-rule rejections 409, lookups 404.
// Anything unrecognized is flattened to an opaque 500 so internals never
// leak to clients; the real cause goes to the log only.
func mapDomainError(c echo.Context, err error) error {
	switch {
	case stdErrors.Is(err, domainErr.ErrInvalidInput),
		stdErrors.Is(err, domainErr.ErrInvalidPincode):
		return c.JSON(http.StatusBadRequest, errorBody(err))

	case stdErrors.Is(err, domainErr.ErrNoQuotesFound):
		// A typed outcome, not a failure: nothing matched.
		return c.JSON(http.StatusNotFound, errorBody(domainErr.ErrNoQuotesFound))

	case stdErrors.Is(err, domainErr.ErrAuctionNotFound),
		stdErrors.Is(err, domainErr.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody(err))

	case stdErrors.Is(err, domainErr.ErrAuctionClosed),
		stdErrors.Is(err, domainErr.ErrBidNotLower),
		stdErrors.Is(err, domainErr.ErrBidLimitReached),
		stdErrors.Is(err, domainErr.ErrNotEligible),
		stdErrors.Is(err, domainErr.ErrEndTimeTooSoon):
		return c.JSON(http.StatusConflict, errorBody(err))

	default:
		log.Printf("http: internal error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		return c.JSON(http.StatusInternalServerError, errorBody(domainErr.ErrInternalServerError))
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
