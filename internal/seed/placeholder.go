package seed

import (
	"fmt"

	"github.com/google/uuid"

	"invoice-dashboard-backend/internal/models"
)

// PlaceholderUser is a login seeded with a plain-text password that is
// hashed on insert.
type PlaceholderUser struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Password string
}

// Data is the full set of rows written by a seeding run.
type Data struct {
	Users     []PlaceholderUser
	Customers []models.Customer
	Invoices  []models.Invoice
	Revenue   []models.Revenue
}

// invoiceNamespace scopes the deterministic ids of seeded invoices.
var invoiceNamespace = uuid.MustParse("6f1b0b8e-3c1a-4d0e-9a57-2f4f3f5a9c11")

// InvoiceID derives a stable id from the invoice content so that seeding
// twice does not duplicate rows.
func InvoiceID(customerID string, amount int64, status models.InvoiceStatus, date string) uuid.UUID {
	return uuid.NewSHA1(invoiceNamespace, []byte(fmt.Sprintf("%s|%d|%s|%s", customerID, amount, status, date)))
}

func invoice(customer uuid.UUID, amount int64, status models.InvoiceStatus, date string) models.Invoice {
	return models.Invoice{
		ID:         InvoiceID(customer.String(), amount, status, date),
		CustomerID: customer.String(),
		Amount:     amount,
		Status:     status,
		Date:       date,
	}
}

// Placeholder returns the demo data set.
func Placeholder() Data {
	customers := []models.Customer{
		{ID: uuid.MustParse("d6e15727-9fe1-4961-8c5b-ea44a9bd81aa"), Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
		{ID: uuid.MustParse("3958dc9e-712f-4377-85e9-fec4b6a6442a"), Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
		{ID: uuid.MustParse("3958dc9e-742f-4377-85e9-fec4b6a6442a"), Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
		{ID: uuid.MustParse("76d65c26-f784-44a2-ac19-586678f7c2f2"), Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
		{ID: uuid.MustParse("cc27c14a-0acf-4f4a-a6c9-d45682c144b9"), Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
		{ID: uuid.MustParse("13d07535-c59e-4157-a011-f8d2ef4e0cbb"), Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
	}
	c := func(i int) uuid.UUID { return customers[i].ID }

	const (
		pending = models.InvoiceStatusPending
		paid    = models.InvoiceStatusPaid
	)

	return Data{
		Users: []PlaceholderUser{
			{ID: uuid.MustParse("410544b2-4001-4271-9855-fec4b6a6442a"), Name: "User", Email: "user@nextmail.com", Password: "123456"},
		},
		Customers: customers,
		Invoices: []models.Invoice{
			invoice(c(0), 15795, pending, "2022-12-06"),
			invoice(c(1), 20348, pending, "2022-11-14"),
			invoice(c(4), 3040, paid, "2022-10-29"),
			invoice(c(3), 44800, paid, "2023-09-10"),
			invoice(c(5), 34577, pending, "2023-08-05"),
			invoice(c(2), 54246, pending, "2023-07-16"),
			invoice(c(0), 666, pending, "2023-06-27"),
			invoice(c(3), 32545, paid, "2023-06-09"),
			invoice(c(4), 1250, paid, "2023-06-17"),
			invoice(c(5), 8546, paid, "2023-06-07"),
			invoice(c(1), 500, paid, "2023-08-19"),
			invoice(c(5), 8945, paid, "2023-06-03"),
			invoice(c(2), 1000, paid, "2022-06-05"),
		},
		Revenue: []models.Revenue{
			{Month: "Jan", Revenue: 2000},
			{Month: "Feb", Revenue: 1800},
			{Month: "Mar", Revenue: 2200},
			{Month: "Apr", Revenue: 2500},
			{Month: "May", Revenue: 2300},
			{Month: "Jun", Revenue: 3200},
			{Month: "Jul", Revenue: 3500},
			{Month: "Aug", Revenue: 3700},
			{Month: "Sep", Revenue: 2500},
			{Month: "Oct", Revenue: 2800},
			{Month: "Nov", Revenue: 3000},
			{Month: "Dec", Revenue: 4800},
		},
	}
}
