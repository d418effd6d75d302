package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecomai/ecom-api-server/internal/domains/orders/adapters/http/mapper"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/application"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/ports"
	apierrors "github.com/ecomai/ecom-api-server/internal/shared/errors"
)

// OrderAPI exposes the order use cases over HTTP.
type OrderAPI struct {
	service ports.Service
}

func NewOrderAPI(service ports.Service) *OrderAPI {
	return &OrderAPI{service: service}
}

// Register mounts the order routes on the given group.
func (api *OrderAPI) Register(group *gin.RouterGroup) {
	group.POST("/orders/place", api.PlaceOrder)
	group.GET("/orders", api.ListOrders)
	group.GET("/orders/:code", api.GetOrder)
}

// PlaceOrder handles POST /api/orders/place.
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var req mapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), mapper.ToPlacementInput(req))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrder(order))
}

// ListOrders handles GET /api/orders.
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrders(orders))
}

// GetOrder handles GET /api/orders/:code.
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrder(order))
}

// respondOrderError maps the placement failure taxonomy onto problem
// responses: expected validation conditions become 4xx with a descriptive
// message, infrastructure failures stay opaque 5xx.
func respondOrderError(c *gin.Context, err error) {
	var stockErr *ports.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		apierrors.Respond(c, apierrors.ErrValidation.
			WithDetail(stockErr.Error()).
			WithExtension("productId", stockErr.ProductID).
			WithExtension("productName", stockErr.ProductName))
	case errors.Is(err, ports.ErrProductNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, ports.ErrOrderNotFound):
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidInput):
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, ports.ErrDuplicateOrderCode):
		apierrors.Respond(c, apierrors.ErrConflict.WithDetail("order could not be assigned a unique code"))
	default:
		apierrors.Respond(c, apierrors.ErrInternal)
	}
}
