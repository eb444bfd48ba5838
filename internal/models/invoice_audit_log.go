package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// InvoiceAuditLog records one successful write against an invoice.
// Payload holds the written fields as JSON.
type InvoiceAuditLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id"`
	Action      AuditAction    `gorm:"type:varchar(16)" json:"action"`
	PerformedBy string         `json:"performed_by"`
	Payload     datatypes.JSON `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
}
