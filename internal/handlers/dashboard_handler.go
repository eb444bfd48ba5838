package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invoice-dashboard-backend/internal/services/dashboard"
)

type DashboardHandler struct {
	service *dashboard.Service
}

func NewDashboardHandler(s *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// Overview serves the dashboard home: revenue chart, latest invoices and cards.
func (h *DashboardHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	revenue, err := h.service.FetchRevenue(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	latest, err := h.service.FetchLatestInvoices(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	cards, err := h.service.FetchCardData(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"revenue":         revenue,
		"latest_invoices": latest,
		"cards":           cards,
	})
}

// ListInvoices serves one page of the invoices table. A missing or
// malformed page is page 1.
func (h *DashboardHandler) ListInvoices(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Query("query")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	rows, err := h.service.FetchFilteredInvoices(ctx, query, page)
	if err != nil {
		respondError(c, err)
		return
	}
	totalPages, err := h.service.FetchInvoicesPages(ctx, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices":    rows,
		"total_pages": totalPages,
		"page":        page,
		"query":       query,
	})
}

// CreateForm serves the customer options of the create form.
func (h *DashboardHandler) CreateForm(c *gin.Context) {
	customers, err := h.service.FetchCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// EditForm serves the invoice to edit and the customer options.
func (h *DashboardHandler) EditForm(c *gin.Context) {
	ctx := c.Request.Context()

	invoice, err := h.service.FetchInvoiceByID(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	customers, err := h.service.FetchCustomers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice, "customers": customers})
}

// InvoiceAudit serves the write history of one invoice.
func (h *DashboardHandler) InvoiceAudit(c *gin.Context) {
	entries, err := h.service.FetchInvoiceAudit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice_id": c.Param("id"), "entries": entries})
}

func (h *DashboardHandler) ListCustomers(c *gin.Context) {
	query := c.Query("query")

	customers, err := h.service.FetchFilteredCustomers(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "query": query})
}
