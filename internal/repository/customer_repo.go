package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invoice-dashboard-backend/internal/models"
)

// CustomerName is the projection used by invoice form selects.
type CustomerName struct {
	ID   uuid.UUID
	Name string
}

// CustomerTotals is a customer with aggregates over its invoices, in minor units.
type CustomerTotals struct {
	ID            uuid.UUID
	Name          string
	Email         string
	ImageURL      string
	TotalInvoices int64
	TotalPending  int64
	TotalPaid     int64
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// ListNames returns every customer ordered by name.
func (r *CustomerRepository) ListNames(ctx context.Context) ([]CustomerName, error) {
	var customers []CustomerName
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select("id, name").
		Order("name ASC").
		Scan(&customers).Error
	return customers, err
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

// SearchWithTotals returns customers whose name or email contain query,
// ignoring case, each with invoice count and pending/paid sums.
func (r *CustomerRepository) SearchWithTotals(ctx context.Context, query string) ([]CustomerTotals, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var rows []CustomerTotals
	err := r.db.WithContext(ctx).
		Table("customers").
		Select(`customers.id, customers.name, customers.email, customers.image_url,
			COUNT(invoices.id) AS total_invoices,
			CAST(COALESCE(SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END), 0) AS BIGINT) AS total_pending,
			CAST(COALESCE(SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END), 0) AS BIGINT) AS total_paid`).
		Joins("LEFT JOIN invoices ON customers.id = invoices.customer_id").
		Where("LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ?", like, like).
		Group("customers.id, customers.name, customers.email, customers.image_url").
		Order("customers.name ASC").
		Scan(&rows).Error
	return rows, err
}

// CreateIfAbsent inserts customer unless a row with the same key exists.
func (r *CustomerRepository) CreateIfAbsent(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(customer).Error
}
