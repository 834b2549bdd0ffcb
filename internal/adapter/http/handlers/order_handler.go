package handlers

import (
	request "erp_lifecycle/internal/adapter/http/dto/request"
	response "erp_lifecycle/internal/adapter/http/dto/response"
	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OrderHandler handles HTTP requests for orders.

type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.usecase.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrders(orders))
}

// SetOrderStatus godoc
// @Summary  Set a plain order status (processing, shipped, delivered, cancelled, exception)
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    id path string true "Order ID"
// @Param    payload body request.OrderStatusRequest true "Status"
// @Success  200 {object} response.OrderResponse
// @Router   /orders/{id}/status [patch]
func (h *OrderHandler) SetOrderStatus(c *gin.Context) {
	var payload request.OrderStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}

	order, err := h.usecase.SetStatus(c.Request.Context(), c.Param("id"), entities.OrderStatus(payload.ResolveStatus()))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}

// MarkOrderBilled godoc
// @Summary  Mark an order as billed outside the system
// @Tags     orders
// @Produce  json
// @Param    id path string true "Order ID"
// @Success  200 {object} response.OrderResponse
// @Router   /orders/{id}/billed [post]
func (h *OrderHandler) MarkOrderBilled(c *gin.Context) {
	order, err := h.usecase.MarkBilled(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}
