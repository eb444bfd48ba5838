package dashboard

import (
	"github.com/shopspring/decimal"

	"invoice-dashboard-backend/internal/models"
)

// LatestInvoice is a row of the latest invoices widget.
type LatestInvoice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Email    string `json:"email"`
	Amount   string `json:"amount"`
}

type CardData struct {
	NumberOfInvoices     int64  `json:"number_of_invoices"`
	NumberOfCustomers    int64  `json:"number_of_customers"`
	TotalPaidInvoices    string `json:"total_paid_invoices"`
	TotalPendingInvoices string `json:"total_pending_invoices"`
}

// InvoiceTableRow is a row of the invoices list.
type InvoiceTableRow struct {
	ID         string               `json:"id"`
	CustomerID string               `json:"customer_id"`
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	ImageURL   string               `json:"image_url"`
	Date       string               `json:"date"`
	Amount     string               `json:"amount"`
	Status     models.InvoiceStatus `json:"status"`
}

// InvoiceForm prefills the edit form. Amount is in major units.
type InvoiceForm struct {
	ID         string               `json:"id"`
	CustomerID string               `json:"customer_id"`
	Amount     decimal.Decimal      `json:"amount"`
	Status     models.InvoiceStatus `json:"status"`
}

// CustomerField is an option of the customer select.
type CustomerField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CustomerTableRow is a row of the customers list with formatted totals.
type CustomerTableRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ImageURL      string `json:"image_url"`
	TotalInvoices int64  `json:"total_invoices"`
	TotalPending  string `json:"total_pending"`
	TotalPaid     string `json:"total_paid"`
}
