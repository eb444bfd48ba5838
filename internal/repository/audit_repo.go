package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoice-dashboard-backend/internal/models"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *models.InvoiceAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByInvoice returns the audit trail of one invoice, oldest first.
func (r *AuditRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]models.InvoiceAuditLog, error) {
	var entries []models.InvoiceAuditLog
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
