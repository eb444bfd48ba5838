package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"invoice-dashboard-backend/internal/models"
)

// Fixture ids used across package tests.
var (
	EvilRabbitID = uuid.MustParse("d6e15727-9fe1-4961-8c5b-ea44a9bd81aa")
	DelbaID      = uuid.MustParse("3958dc9e-712f-4377-85e9-fec4b6a6442a")
	LeeID        = uuid.MustParse("3958dc9e-742f-4377-85e9-fec4b6a6442a")
)

// Fixtures is a small data set with three customers, seven invoices and
// two revenue months.
type Fixtures struct {
	Customers []models.Customer
	Invoices  []models.Invoice
	Revenue   []models.Revenue
}

func DefaultFixtures() Fixtures {
	inv := func(n int, customer uuid.UUID, amount int64, status models.InvoiceStatus, date string) models.Invoice {
		return models.Invoice{
			ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(n)}),
			CustomerID: customer.String(),
			Amount:     amount,
			Status:     status,
			Date:       date,
		}
	}

	return Fixtures{
		Customers: []models.Customer{
			{ID: EvilRabbitID, Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
			{ID: DelbaID, Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
			{ID: LeeID, Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
		},
		Invoices: []models.Invoice{
			inv(1, EvilRabbitID, 15795, models.InvoiceStatusPending, "2022-12-06"),
			inv(2, DelbaID, 20348, models.InvoiceStatusPending, "2022-11-14"),
			inv(3, LeeID, 3040, models.InvoiceStatusPaid, "2022-10-29"),
			inv(4, EvilRabbitID, 44800, models.InvoiceStatusPaid, "2023-09-10"),
			inv(5, DelbaID, 34577, models.InvoiceStatusPending, "2023-08-05"),
			inv(6, LeeID, 54246, models.InvoiceStatusPending, "2023-07-16"),
			inv(7, EvilRabbitID, 666, models.InvoiceStatusPending, "2023-06-27"),
		},
		Revenue: []models.Revenue{
			{Month: "Jan", Revenue: 2000},
			{Month: "Feb", Revenue: 1800},
		},
	}
}

// Load inserts the fixtures into db.
func (f Fixtures) Load(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&f.Customers).Error)
	require.NoError(t, db.Create(&f.Invoices).Error)
	require.NoError(t, db.Create(&f.Revenue).Error)
}

// InvoiceID returns the id of the n-th fixture invoice, counting from 1.
func InvoiceID(n int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(n)})
}
