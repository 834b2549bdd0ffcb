package handlers

import (
	request "erp_lifecycle/internal/adapter/http/dto/request"
	response "erp_lifecycle/internal/adapter/http/dto/response"
	"erp_lifecycle/internal/domain/entities"
	"erp_lifecycle/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles HTTP requests for invoices.

type InvoiceHandler struct {
	usecase usecase.IInvoiceUseCase
}

func NewInvoiceHandler(uc usecase.IInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{usecase: uc}
}

// CreateInvoice godoc
// @Summary  Invoice an order, lowering its outstanding balance
// @Tags     invoices
// @Accept   json
// @Produce  json
// @Param    id path string true "Order ID"
// @Param    payload body request.InvoiceCreateRequest true "Invoice"
// @Success  201 {object} response.InvoiceResponse
// @Failure  409 {object} pkg.HTTPError
// @Router   /orders/{id}/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var payload request.InvoiceCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}

	invoice, err := h.usecase.Generate(c.Request.Context(), usecase.NewInvoice{
		OrderID:       c.Param("id"),
		InvoiceNumber: payload.InvoiceNumber,
		AccessKey:     payload.AccessKey,
		IssueDate:     payload.ResolveIssueDate(),
		Amount:        payload.Amount,
		Status:        entities.InvoiceStatus(payload.ResolveStatus()),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromInvoice(invoice))
}

func (h *InvoiceHandler) ListOrderInvoices(c *gin.Context) {
	invoices, err := h.usecase.ListByOrderID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInvoices(invoices))
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(invoice))
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.usecase.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInvoices(invoices))
}

// CancelInvoice godoc
// @Summary  Cancel an invoice; a paid invoice gives its total back to the order
// @Tags     invoices
// @Produce  json
// @Param    id path string true "Invoice ID"
// @Success  200 {object} response.InvoiceResponse
// @Router   /invoices/{id}/cancel [post]
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	invoice, err := h.usecase.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(invoice))
}
