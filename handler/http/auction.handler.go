package httphandler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/testforus12-cyber/backend-2-sub000/internal/auction"
	domainErr "github.com/testforus12-cyber/backend-2-sub000/internal/domain/errors"
)

type AuctionHandler struct {
	svc *auction.Service
}

func NewAuctionHandler(svc *auction.Service) *AuctionHandler {
	return &AuctionHandler{svc: svc}
}

func (h *AuctionHandler) Register(e *echo.Echo) {
	e.POST("/api/auctions", h.Create)
	e.POST("/api/auctions/:id/bids", h.PlaceBid)
	e.GET("/api/auctions", h.ListVisible)
	e.GET("/api/auctions/:id", h.GetDetails)
}

func (h *AuctionHandler) Create(c echo.Context) error {
	var params auction.CreateParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(domainErr.ErrInvalidInput))
	}

	created, err := h.svc.Create(c.Request().Context(), params)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

type placeBidReq struct {
	BidderID string  `json:"bidderId"`
	Amount   float64 `json:"amount"`
}

func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	var req placeBidReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(domainErr.ErrInvalidInput))
	}

	snapshot, err := h.svc.PlaceBid(c.Request().Context(), c.Param("id"), req.BidderID, req.Amount)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// ListVisible returns the auctions one bidder may see, grouped by type.
// The bidder identifies itself with the bidderId query param; auth sits
// in front of this service.
func (h *AuctionHandler) ListVisible(c echo.Context) error {
	visible, err := h.svc.ListVisible(c.Request().Context(), c.QueryParam("bidderId"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(http.StatusOK, visible)
}

func (h *AuctionHandler) GetDetails(c echo.Context) error {
	details, err := h.svc.GetDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}
