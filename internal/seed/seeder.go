// Package seed fills an empty database with demo data. Every row is
// inserted by its own goroutine and all four tables are seeded at once.
// There is no transaction: a failed row does not roll back the others,
// and rows that already exist are left untouched.
package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"invoice-dashboard-backend/internal/auth"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"
)

// Report counts the rows attempted and failed per table.
type Report struct {
	Users     TableReport `json:"users"`
	Customers TableReport `json:"customers"`
	Invoices  TableReport `json:"invoices"`
	Revenue   TableReport `json:"revenue"`
}

type TableReport struct {
	Attempted int `json:"attempted"`
	Failed    int `json:"failed"`
}

type Seeder struct {
	users     *repository.UserRepository
	customers *repository.CustomerRepository
	invoices  *repository.InvoiceRepository
	revenue   *repository.RevenueRepository
	logger    *zap.Logger
}

func NewSeeder(
	users *repository.UserRepository,
	customers *repository.CustomerRepository,
	invoices *repository.InvoiceRepository,
	revenue *repository.RevenueRepository,
	log *zap.Logger,
) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{
		users:     users,
		customers: customers,
		invoices:  invoices,
		revenue:   revenue,
		logger:    log,
	}
}

// Run inserts data and waits for every row. The returned error joins the
// failure of each row that could not be inserted.
func (s *Seeder) Run(ctx context.Context, data Data) (*Report, error) {
	report := &Report{}
	var (
		wg     sync.WaitGroup
		tables [4]error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		report.Users, tables[0] = insertAll(ctx, "user", data.Users, func(ctx context.Context, u PlaceholderUser) error {
			hash, err := auth.HashPassword(u.Password)
			if err != nil {
				return err
			}
			return s.users.CreateIfAbsent(ctx, &models.User{ID: u.ID, Name: u.Name, Email: u.Email, Password: hash})
		})
	}()
	go func() {
		defer wg.Done()
		report.Customers, tables[1] = insertAll(ctx, "customer", data.Customers, func(ctx context.Context, c models.Customer) error {
			return s.customers.CreateIfAbsent(ctx, &c)
		})
	}()
	go func() {
		defer wg.Done()
		report.Invoices, tables[2] = insertAll(ctx, "invoice", data.Invoices, func(ctx context.Context, inv models.Invoice) error {
			return s.invoices.CreateIfAbsent(ctx, &inv)
		})
	}()
	go func() {
		defer wg.Done()
		report.Revenue, tables[3] = insertAll(ctx, "revenue", data.Revenue, func(ctx context.Context, r models.Revenue) error {
			return s.revenue.CreateIfAbsent(ctx, &r)
		})
	}()
	wg.Wait()

	err := errors.Join(tables[:]...)
	if err != nil {
		s.logger.Error("Seeding finished with errors", zap.Any("report", report), zap.Error(err))
	} else {
		s.logger.Info("Seeding finished", zap.Any("report", report))
	}
	return report, err
}

// insertAll runs insert for every row concurrently and collects all failures.
func insertAll[T any](ctx context.Context, table string, rows []T, insert func(context.Context, T) error) (TableReport, error) {
	errs := make([]error, len(rows))

	var wg sync.WaitGroup
	for i, row := range rows {
		wg.Add(1)
		go func(i int, row T) {
			defer wg.Done()
			if err := insert(ctx, row); err != nil {
				errs[i] = fmt.Errorf("seed %s #%d: %w", table, i, err)
			}
		}(i, row)
	}
	wg.Wait()

	report := TableReport{Attempted: len(rows)}
	for _, err := range errs {
		if err != nil {
			report.Failed++
		}
	}
	return report, errors.Join(errs...)
}
