package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoice-dashboard-backend/internal/auth"
	"invoice-dashboard-backend/internal/services/dashboard"
	"invoice-dashboard-backend/internal/services/invoices"
)

const (
	msgInvoiceNotFound = "Invoice not found."
	msgInternal        = "Something went wrong."
)

// respondError maps service errors to status codes. Backend errors carry a
// user-safe message; their cause has already been logged by the service.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		readErr  *dashboard.DatabaseError
		writeErr *invoices.WriteError
	)
	switch {
	case errors.Is(err, dashboard.ErrInvoiceNotFound), errors.Is(err, invoices.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgInvoiceNotFound})
	case errors.Is(err, invoices.ErrDeletionDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": invoices.MsgDeleteFailed})
	case errors.As(err, &readErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": readErr.Error()})
	case errors.As(err, &writeErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": writeErr.Error()})
	case errors.Is(err, auth.ErrFetchUser):
		c.JSON(http.StatusInternalServerError, gin.H{"error": auth.ErrFetchUser.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}
