package handlers

import (
	"erp_lifecycle/internal/usecase"
	"erp_lifecycle/pkg"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
)

// mapLifecycleError turns use case errors into the API error envelope. Every
// failure names the action that failed so the UI can show it as-is.
func mapLifecycleError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidAmount):
		return pkg.NewDomainErrorSimple("INVALID_AMOUNT", "Amount must be greater than zero", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidAccessKey):
		return pkg.NewDomainErrorSimple("INVALID_ACCESS_KEY", "Access key must have exactly 44 characters", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidStatus):
		return pkg.NewDomainErrorSimple("INVALID_STATUS", "Invalid status", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrValidation):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrDuplicateOrderForQuote):
		return pkg.NewDomainErrorSimple("ORDER_ALREADY_EXISTS", "An order was already generated for this quote", http.StatusConflict)
	case errors.Is(err, usecase.ErrDuplicateInvoiceNumber):
		return pkg.NewDomainErrorSimple("DUPLICATE_INVOICE_NUMBER", "Invoice number already in use", http.StatusConflict)
	case errors.Is(err, usecase.ErrDuplicateAccessKey):
		return pkg.NewDomainErrorSimple("DUPLICATE_ACCESS_KEY", "Access key already in use", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Status change not allowed", http.StatusConflict)
	case errors.Is(err, usecase.ErrConcurrentModification):
		return pkg.NewDomainErrorSimple("CONCURRENT_MODIFICATION", "Record changed meanwhile, reload and retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrStoreFailure):
		return pkg.NewDomainError("STORE_FAILURE", "Could not reach the document store", err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func writeError(c *gin.Context, err error) {
	appErr := mapLifecycleError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
