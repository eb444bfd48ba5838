package models

import (
	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Valid reports whether s is one of the known invoice states.
func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice amounts are stored in minor units (cents). Date is an ISO
// YYYY-MM-DD string so that lexical order matches chronological order.
type Invoice struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID string        `gorm:"type:uuid;index;not null" json:"customer_id"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Status     InvoiceStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	Date       string        `gorm:"type:varchar(10);index;not null" json:"date"`
}
