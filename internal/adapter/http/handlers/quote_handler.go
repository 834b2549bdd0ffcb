package handlers

import (
	"context"
	request "erp_lifecycle/internal/adapter/http/dto/request"
	response "erp_lifecycle/internal/adapter/http/dto/response"
	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// QuoteHandler handles HTTP requests for quotes, including order generation.

type QuoteHandler struct {
	quotes usecase.IQuoteUseCase
	orders usecase.IOrderUseCase
}

func NewQuoteHandler(quotes usecase.IQuoteUseCase, orders usecase.IOrderUseCase) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, orders: orders}
}

// CreateQuote godoc
// @Summary  Register a pending quote
// @Tags     quotes
// @Accept   json
// @Produce  json
// @Param    payload body request.QuoteCreateRequest true "Quote"
// @Success  201 {object} response.QuoteResponse
// @Failure  400 {object} pkg.HTTPError
// @Router   /quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var payload request.QuoteCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}

	quote, err := h.quotes.CreateQuote(c.Request.Context(), usecase.NewQuote{
		Client: entities.ClientSnapshot{
			ID:    payload.Client.ID,
			Name:  payload.Client.Name,
			Email: payload.Client.Email,
		},
		Product:      payload.Product,
		Price:        payload.Price,
		DeliveryDate: payload.ResolveDeliveryDate(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.FromQuote(quote))
}

func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.quotes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	quotes, err := h.quotes.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuotes(quotes))
}

func (h *QuoteHandler) ApproveQuote(c *gin.Context) {
	h.patchQuoteStatus(c, h.quotes.Approve)
}

func (h *QuoteHandler) RejectQuote(c *gin.Context) {
	h.patchQuoteStatus(c, h.quotes.Reject)
}

func (h *QuoteHandler) patchQuoteStatus(
	c *gin.Context,
	updater func(ctx context.Context, id string) (entities.Quote, error),
) {
	quote, err := updater(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// GenerateOrder godoc
// @Summary  Generate the order of a quote, approving the quote
// @Tags     quotes
// @Produce  json
// @Param    id path string true "Quote ID"
// @Success  201 {object} response.OrderResponse
// @Failure  404 {object} pkg.HTTPError
// @Failure  409 {object} pkg.HTTPError
// @Router   /quotes/{id}/order [post]
func (h *QuoteHandler) GenerateOrder(c *gin.Context) {
	order, err := h.orders.GenerateFromQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromOrder(order))
}
