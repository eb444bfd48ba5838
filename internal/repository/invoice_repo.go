package repository

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoice-dashboard-backend/internal/models"
)

// InvoiceRow is an invoice joined with the customer it belongs to.
type InvoiceRow struct {
	ID         uuid.UUID
	CustomerID string
	Name       string
	Email      string
	ImageURL   string
	Amount     int64
	Date       string
	Status     models.InvoiceStatus
}

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("invoices").
		Joins("JOIN customers ON invoices.customer_id = customers.id")
}

// matching restricts q to rows where customer name, customer email, amount
// in cents, date or status contain query, ignoring case. A query that reads
// as a displayed amount such as "$1,234.50" also matches that exact amount.
// An empty query matches all rows.
func matching(q *gorm.DB, query string) *gorm.DB {
	query = strings.TrimSpace(query)
	if query == "" {
		return q
	}
	like := "%" + strings.ToLower(query) + "%"
	cond := "LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ? OR CAST(invoices.amount AS TEXT) LIKE ? OR invoices.date LIKE ? OR LOWER(invoices.status) LIKE ?"
	args := []any{like, like, like, like, like}

	if cents, ok := displayedAmount(query); ok {
		cond += " OR invoices.amount = ?"
		args = append(args, cents)
	}
	return q.Where(cond, args...)
}

// displayedAmount reads query as an amount in major units with at most two
// decimals, ignoring a leading "$" and thousands separators.
func displayedAmount(query string) (int64, bool) {
	s := strings.ReplaceAll(strings.TrimPrefix(query, "$"), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return 0, false
	}
	cents := d.Shift(2)
	if !cents.IsInteger() || cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, false
	}
	return cents.IntPart(), true
}

const invoiceRowColumns = "invoices.id, invoices.customer_id, invoices.amount, invoices.date, invoices.status, customers.name, customers.email, customers.image_url"

// Latest returns the most recent invoices by date.
func (r *InvoiceRepository) Latest(ctx context.Context, limit int) ([]InvoiceRow, error) {
	var rows []InvoiceRow
	err := r.joined(ctx).
		Select(invoiceRowColumns).
		Order("invoices.date DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// Search returns one page of invoices matching query, newest first.
func (r *InvoiceRepository) Search(ctx context.Context, query string, limit, offset int) ([]InvoiceRow, error) {
	var rows []InvoiceRow
	err := matching(r.joined(ctx), query).
		Select(invoiceRowColumns).
		Order("invoices.date DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

// CountSearch counts invoices matching query using the same filter as Search.
func (r *InvoiceRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	var count int64
	err := matching(r.joined(ctx), query).Count(&count).Error
	return count, err
}

func (r *InvoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).Count(&count).Error
	return count, err
}

// AmountsByStatus returns the amount of every invoice in status.
func (r *InvoiceRepository) AmountsByStatus(ctx context.Context, status models.InvoiceStatus) ([]int64, error) {
	var amounts []int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("status = ?", status).
		Pluck("amount", &amounts).Error
	return amounts, err
}

// GetByID fetch a single invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return translateWrite(r.db.WithContext(ctx).Create(invoice).Error)
}

// CreateIfAbsent inserts invoice unless a row with the same key exists.
func (r *InvoiceRepository) CreateIfAbsent(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(invoice).Error
}

// Update overwrites the editable fields of an invoice. The date is never touched.
func (r *InvoiceRepository) Update(ctx context.Context, id uuid.UUID, customerID string, amount int64, status models.InvoiceStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"customer_id": customerID,
			"amount":      amount,
			"status":      status,
		})
	if result.Error != nil {
		return translateWrite(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an invoice. Deleting an absent id is not an error.
func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Invoice{}).Error
}
