package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"invoice-dashboard-backend/internal/models"
)

const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmountPositive = "Please enter an amount greater than $0."
	MsgSelectStatus   = "Please select an invoice status."
)

// RawInvoiceForm carries the untyped values submitted by the invoice form.
// The same shape serves create and update; id and date are never accepted.
type RawInvoiceForm struct {
	CustomerID string `form:"customerId" json:"customerId" validate:"notblank"`
	Amount     string `form:"amount" json:"amount" validate:"amount_gt0"`
	Status     string `form:"status" json:"status" validate:"oneof=pending paid"`
}

// InvoiceInput is a validated invoice form.
type InvoiceInput struct {
	CustomerID string
	Amount     decimal.Decimal
	Status     models.InvoiceStatus
}

var invoiceMessages = map[string]string{
	"customerId": MsgSelectCustomer,
	"amount":     MsgAmountPositive,
	"status":     MsgSelectStatus,
}

// ParseInvoiceForm validates raw and returns the typed input, or the
// field errors when any rule fails. Exactly one of the results is set.
func ParseInvoiceForm(raw RawInvoiceForm) (*InvoiceInput, FieldErrors) {
	if err := Validator().Struct(raw); err != nil {
		return nil, collect(err, invoiceMessages)
	}

	amount, err := ParseAmount(raw.Amount)
	if err != nil {
		return nil, FieldErrors{"amount": {MsgAmountPositive}}
	}

	return &InvoiceInput{
		CustomerID: strings.TrimSpace(raw.CustomerID),
		Amount:     amount,
		Status:     models.InvoiceStatus(raw.Status),
	}, nil
}
