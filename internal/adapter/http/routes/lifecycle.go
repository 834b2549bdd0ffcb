package routes

import (
	"erp_lifecycle/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotes   = "/quotes"
	PathOrders   = "/orders"
	PathInvoices = "/invoices"
)

func addLifecycleRoutes(rg *gin.RouterGroup, quoteHandler *handlers.QuoteHandler, orderHandler *handlers.OrderHandler, invoiceHandler *handlers.InvoiceHandler) {
	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", quoteHandler.CreateQuote)
		quotes.GET("", quoteHandler.ListQuotes)
		quotes.GET("/:id", quoteHandler.GetQuote)
		quotes.PATCH("/:id/approve", quoteHandler.ApproveQuote)
		quotes.PATCH("/:id/reject", quoteHandler.RejectQuote)
		quotes.POST("/:id/order", quoteHandler.GenerateOrder)
	}

	orders := rg.Group(PathOrders)
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PATCH("/:id/status", orderHandler.SetOrderStatus)
		orders.POST("/:id/billed", orderHandler.MarkOrderBilled)
		orders.POST("/:id/invoices", invoiceHandler.CreateInvoice)
		orders.GET("/:id/invoices", invoiceHandler.ListOrderInvoices)
	}

	invoices := rg.Group(PathInvoices)
	{
		invoices.GET("", invoiceHandler.ListInvoices)
		invoices.GET("/:id", invoiceHandler.GetInvoice)
		invoices.POST("/:id/cancel", invoiceHandler.CancelInvoice)
	}
}
