// Package dashboard implements the read side of the dashboard: revenue,
// summary cards, invoice and customer lists. Every result is served
// through the view cache under the scope of the page that shows it.
package dashboard

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/logger"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/money"
	"invoice-dashboard-backend/internal/repository"
)

const (
	// ItemsPerPage is the size of an invoices list page.
	ItemsPerPage        = 6
	latestInvoicesLimit = 5
)

type InvoiceReader interface {
	Latest(ctx context.Context, limit int) ([]repository.InvoiceRow, error)
	Search(ctx context.Context, query string, limit, offset int) ([]repository.InvoiceRow, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	Count(ctx context.Context) (int64, error)
	AmountsByStatus(ctx context.Context, status models.InvoiceStatus) ([]int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
}

type CustomerReader interface {
	ListNames(ctx context.Context) ([]repository.CustomerName, error)
	Count(ctx context.Context) (int64, error)
	SearchWithTotals(ctx context.Context, query string) ([]repository.CustomerTotals, error)
}

type RevenueReader interface {
	List(ctx context.Context) ([]models.Revenue, error)
}

type AuditReader interface {
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]models.InvoiceAuditLog, error)
}

var (
	_ InvoiceReader  = (*repository.InvoiceRepository)(nil)
	_ CustomerReader = (*repository.CustomerRepository)(nil)
	_ RevenueReader  = (*repository.RevenueRepository)(nil)
	_ AuditReader    = (*repository.AuditRepository)(nil)
)

type Service struct {
	invoices  InvoiceReader
	customers CustomerReader
	revenue   RevenueReader
	audit     AuditReader
	store     cache.Store
	ttl       time.Duration
	money     *money.Formatter
	logger    *zap.Logger
}

// Option is a functional option for configuring the service
type Option func(*Service)

// WithCache serves results through store for ttl.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *Service) {
		s.store = store
		s.ttl = ttl
	}
}

// WithAuditLog enables FetchInvoiceAudit.
func WithAuditLog(r AuditReader) Option {
	return func(s *Service) {
		s.audit = r
	}
}

func WithFormatter(f *money.Formatter) Option {
	return func(s *Service) {
		s.money = f
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func NewService(invoices InvoiceReader, customers CustomerReader, revenue RevenueReader, opts ...Option) *Service {
	s := &Service{
		invoices:  invoices,
		customers: customers,
		revenue:   revenue,
		money:     money.Default(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) fail(ctx context.Context, what string, err error) error {
	logger.Or(ctx, s.logger).Error("Database Error",
		zap.String("fetch", what),
		zap.Error(err))
	return &DatabaseError{What: what, Err: err}
}

// FetchRevenue returns every precomputed monthly revenue row.
func (s *Service) FetchRevenue(ctx context.Context) ([]models.Revenue, error) {
	return cache.Remember(ctx, s.store, cache.ScopeDashboard, cache.Key(cache.ScopeDashboard, "revenue"), s.ttl,
		func(ctx context.Context) ([]models.Revenue, error) {
			rows, err := s.revenue.List(ctx)
			if err != nil {
				return nil, s.fail(ctx, "revenue data", err)
			}
			return rows, nil
		})
}

// FetchLatestInvoices returns the five most recent invoices with customer details.
func (s *Service) FetchLatestInvoices(ctx context.Context) ([]LatestInvoice, error) {
	return cache.Remember(ctx, s.store, cache.ScopeDashboard, cache.Key(cache.ScopeDashboard, "latest-invoices"), s.ttl,
		func(ctx context.Context) ([]LatestInvoice, error) {
			rows, err := s.invoices.Latest(ctx, latestInvoicesLimit)
			if err != nil {
				return nil, s.fail(ctx, "the latest invoices", err)
			}
			latest := make([]LatestInvoice, 0, len(rows))
			for _, r := range rows {
				latest = append(latest, LatestInvoice{
					ID:       r.ID.String(),
					Name:     r.Name,
					ImageURL: r.ImageURL,
					Email:    r.Email,
					Amount:   s.money.Format(r.Amount),
				})
			}
			return latest, nil
		})
}

// FetchCardData counts invoices and customers and totals paid and pending
// amounts. The totals are summed here rather than in SQL.
func (s *Service) FetchCardData(ctx context.Context) (*CardData, error) {
	return cache.Remember(ctx, s.store, cache.ScopeDashboard, cache.Key(cache.ScopeDashboard, "cards"), s.ttl,
		func(ctx context.Context) (*CardData, error) {
			invoiceCount, err := s.invoices.Count(ctx)
			if err != nil {
				return nil, s.fail(ctx, "card data", err)
			}
			customerCount, err := s.customers.Count(ctx)
			if err != nil {
				return nil, s.fail(ctx, "card data", err)
			}
			paid, err := s.invoices.AmountsByStatus(ctx, models.InvoiceStatusPaid)
			if err != nil {
				return nil, s.fail(ctx, "card data", err)
			}
			pending, err := s.invoices.AmountsByStatus(ctx, models.InvoiceStatusPending)
			if err != nil {
				return nil, s.fail(ctx, "card data", err)
			}

			return &CardData{
				NumberOfInvoices:     invoiceCount,
				NumberOfCustomers:    customerCount,
				TotalPaidInvoices:    s.money.Format(sum(paid)),
				TotalPendingInvoices: s.money.Format(sum(pending)),
			}, nil
		})
}

func sum(amounts []int64) int64 {
	var total int64
	for _, a := range amounts {
		total += a
	}
	return total
}

// Offset returns the first row index of page. Pages below 1 are treated as 1.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * ItemsPerPage
}

// FetchFilteredInvoices returns one page of invoices matching query, newest first.
func (s *Service) FetchFilteredInvoices(ctx context.Context, query string, page int) ([]InvoiceTableRow, error) {
	offset := Offset(page)
	key := cache.Key(cache.ScopeInvoices, "query="+query, "offset="+strconv.Itoa(offset))

	return cache.Remember(ctx, s.store, cache.ScopeInvoices, key, s.ttl,
		func(ctx context.Context) ([]InvoiceTableRow, error) {
			rows, err := s.invoices.Search(ctx, query, ItemsPerPage, offset)
			if err != nil {
				return nil, s.fail(ctx, "invoices", err)
			}
			table := make([]InvoiceTableRow, 0, len(rows))
			for _, r := range rows {
				table = append(table, InvoiceTableRow{
					ID:         r.ID.String(),
					CustomerID: r.CustomerID,
					Name:       r.Name,
					Email:      r.Email,
					ImageURL:   r.ImageURL,
					Date:       r.Date,
					Amount:     s.money.Format(r.Amount),
					Status:     r.Status,
				})
			}
			return table, nil
		})
}

// FetchInvoicesPages returns the number of pages FetchFilteredInvoices can
// produce for query.
func (s *Service) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	key := cache.Key(cache.ScopeInvoices, "pages", "query="+query)

	return cache.Remember(ctx, s.store, cache.ScopeInvoices, key, s.ttl,
		func(ctx context.Context) (int, error) {
			count, err := s.invoices.CountSearch(ctx, query)
			if err != nil {
				return 0, s.fail(ctx, "total number of invoices", err)
			}
			return int((count + ItemsPerPage - 1) / ItemsPerPage), nil
		})
}

// FetchInvoiceByID returns the invoice with its amount in major units.
func (s *Service) FetchInvoiceByID(ctx context.Context, id string) (*InvoiceForm, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvoiceNotFound
	}

	return cache.Remember(ctx, s.store, cache.ScopeInvoices, cache.Key(cache.ScopeInvoices, "id="+invoiceID.String()), s.ttl,
		func(ctx context.Context) (*InvoiceForm, error) {
			invoice, err := s.invoices.GetByID(ctx, invoiceID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvoiceNotFound
			}
			if err != nil {
				return nil, s.fail(ctx, "invoice", err)
			}
			return &InvoiceForm{
				ID:         invoice.ID.String(),
				CustomerID: invoice.CustomerID,
				Amount:     money.FromMinorUnits(invoice.Amount),
				Status:     invoice.Status,
			}, nil
		})
}

// FetchInvoiceAudit returns the recorded writes of invoice id, oldest
// first. Deleted invoices keep their trail.
func (s *Service) FetchInvoiceAudit(ctx context.Context, id string) ([]models.InvoiceAuditLog, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvoiceNotFound
	}
	if s.audit == nil {
		return []models.InvoiceAuditLog{}, nil
	}

	return cache.Remember(ctx, s.store, cache.ScopeInvoices, cache.Key(cache.ScopeInvoices, "audit="+invoiceID.String()), s.ttl,
		func(ctx context.Context) ([]models.InvoiceAuditLog, error) {
			entries, err := s.audit.ListByInvoice(ctx, invoiceID)
			if err != nil {
				return nil, s.fail(ctx, "invoice history", err)
			}
			if entries == nil {
				entries = []models.InvoiceAuditLog{}
			}
			return entries, nil
		})
}

// FetchCustomers returns every customer ordered by name.
func (s *Service) FetchCustomers(ctx context.Context) ([]CustomerField, error) {
	return cache.Remember(ctx, s.store, cache.ScopeCustomers, cache.Key(cache.ScopeCustomers, "all"), s.ttl,
		func(ctx context.Context) ([]CustomerField, error) {
			rows, err := s.customers.ListNames(ctx)
			if err != nil {
				return nil, s.fail(ctx, "all customers", err)
			}
			fields := make([]CustomerField, 0, len(rows))
			for _, r := range rows {
				fields = append(fields, CustomerField{ID: r.ID.String(), Name: r.Name})
			}
			return fields, nil
		})
}

// FetchFilteredCustomers returns customers matching query with their invoice totals.
func (s *Service) FetchFilteredCustomers(ctx context.Context, query string) ([]CustomerTableRow, error) {
	key := cache.Key(cache.ScopeCustomers, "query="+query)

	return cache.Remember(ctx, s.store, cache.ScopeCustomers, key, s.ttl,
		func(ctx context.Context) ([]CustomerTableRow, error) {
			rows, err := s.customers.SearchWithTotals(ctx, query)
			if err != nil {
				return nil, s.fail(ctx, "customer table", err)
			}
			table := make([]CustomerTableRow, 0, len(rows))
			for _, r := range rows {
				table = append(table, CustomerTableRow{
					ID:            r.ID.String(),
					Name:          r.Name,
					Email:         r.Email,
					ImageURL:      r.ImageURL,
					TotalInvoices: r.TotalInvoices,
					TotalPending:  s.money.Format(r.TotalPending),
					TotalPaid:     s.money.Format(r.TotalPaid),
				})
			}
			return table, nil
		})
}
