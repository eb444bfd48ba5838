package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/logger"
	"invoice-dashboard-backend/internal/seed"
	"invoice-dashboard-backend/internal/services/invoices"
	"invoice-dashboard-backend/internal/validation"
)

// Importer inserts a batch of rows that may already exist.
type Importer interface {
	Run(ctx context.Context, data seed.Data) (*seed.Report, error)
}

var _ Importer = (*seed.Seeder)(nil)

type InvoiceHandler struct {
	service  *invoices.Service
	importer Importer
	store    cache.Store
}

func NewInvoiceHandler(s *invoices.Service, importer Importer, store cache.Store) *InvoiceHandler {
	return &InvoiceHandler{service: s, importer: importer, store: store}
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var raw validation.RawInvoiceForm
	if err := c.ShouldBind(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := h.service.CreateInvoice(c.Request.Context(), raw)
	h.respond(c, result, err)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	var raw validation.RawInvoiceForm
	if err := c.ShouldBind(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := h.service.UpdateInvoice(c.Request.Context(), c.Param("id"), raw)
	h.respond(c, result, err)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	result, err := h.service.DeleteInvoice(c.Request.Context(), c.Param("id"))
	h.respond(c, result, err)
}

func (h *InvoiceHandler) respond(c *gin.Context, result *invoices.Result, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.OK() {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.Redirect(http.StatusSeeOther, result.Redirect)
}

// Upload imports invoices from a CSV file. Invalid rows are skipped and
// reported; rows that already exist are left untouched.
func (h *InvoiceHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	rows, parseErr := seed.ParseInvoicesCSV(file, header.Filename)
	skipped := []string{}
	if parseErr != nil {
		log.Warn("Skipped invalid CSV rows", zap.String("file", header.Filename), zap.Error(parseErr))
		if len(rows) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
			return
		}
		skipped = append(skipped, parseErr.Error())
	}

	report, err := h.importer.Run(ctx, seed.Data{Invoices: rows})
	if err != nil {
		log.Error("Invoice import finished with errors", zap.Error(err))
	}

	if h.store != nil {
		if err := h.store.Invalidate(ctx, cache.ScopeDashboard); err != nil {
			log.Error("Failed to invalidate dashboard views", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"file":      header.Filename,
		"attempted": report.Invoices.Attempted,
		"failed":    report.Invoices.Failed,
		"skipped":   skipped,
	})
}
