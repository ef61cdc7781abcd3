// Package httphandler exposes the pricing core over HTTP. Controllers
// stay thin: bind, delegate to the service, map domain errors to status
// codes.
package httphandler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domainErr "github.com/testforus12-cyber/backend-2-sub000/internal/domain/errors"
	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
	"github.com/testforus12-cyber/backend-2-sub000/internal/quote"
)

type QuoteHandler struct {
	svc *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

func (h *QuoteHandler) Register(e *echo.Echo) {
	e.POST("/api/quotes", h.ComputeQuotes)
}

// ComputeQuotes prices a shipment across every eligible vendor.
func (h *QuoteHandler) ComputeQuotes(c echo.Context) error {
	var req models.ShipmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(domainErr.ErrInvalidInput))
	}

	result, err := h.svc.ComputeQuotes(c.Request().Context(), req)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
