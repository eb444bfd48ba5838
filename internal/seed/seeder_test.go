package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/testutil"
)

func newSeeder(db *gorm.DB) *Seeder {
	return NewSeeder(
		repository.NewUserRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewRevenueRepository(db),
		nil,
	)
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	data := Placeholder()

	report, err := newSeeder(db).Run(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, TableReport{Attempted: len(data.Invoices)}, report.Invoices)
	assert.Equal(t, int64(len(data.Users)), count(t, db, &models.User{}))
	assert.Equal(t, int64(len(data.Customers)), count(t, db, &models.Customer{}))
	assert.Equal(t, int64(len(data.Invoices)), count(t, db, &models.Invoice{}))
	assert.Equal(t, int64(12), count(t, db, &models.Revenue{}))

	t.Run("passwords are stored hashed", func(t *testing.T) {
		var user models.User
		require.NoError(t, db.Where("email = ?", "user@nextmail.com").First(&user).Error)
		assert.NotEqual(t, "123456", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("123456")))
	})

	t.Run("seeding twice leaves existing rows alone", func(t *testing.T) {
		report, err := newSeeder(db).Run(context.Background(), data)
		require.NoError(t, err)
		assert.Zero(t, report.Customers.Failed)
		assert.Equal(t, int64(len(data.Customers)), count(t, db, &models.Customer{}))
		assert.Equal(t, int64(len(data.Invoices)), count(t, db, &models.Invoice{}))
		assert.Equal(t, int64(12), count(t, db, &models.Revenue{}))
	})

	t.Run("the 666 invoice belongs to Evil Rabbit", func(t *testing.T) {
		var name string
		err := db.Table("invoices").
			Select("customers.name").
			Joins("JOIN customers ON invoices.customer_id = customers.id").
			Where("invoices.amount = ?", 666).
			Scan(&name).Error
		require.NoError(t, err)
		assert.Equal(t, "Evil Rabbit", name)
	})
}

func TestSeeder_Run_CollectsEveryFailure(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Revenue{}))

	data := Placeholder()
	report, err := newSeeder(db).Run(context.Background(), data)

	require.Error(t, err)
	assert.Equal(t, TableReport{Attempted: 12, Failed: 12}, report.Revenue)
	assert.Zero(t, report.Invoices.Failed)
	assert.Equal(t, int64(len(data.Invoices)), count(t, db, &models.Invoice{}))
}

func TestInvoiceID_IsStable(t *testing.T) {
	a := InvoiceID("c1", 100, models.InvoiceStatusPaid, "2024-01-01")
	b := InvoiceID("c1", 100, models.InvoiceStatusPaid, "2024-01-01")
	c := InvoiceID("c1", 101, models.InvoiceStatusPaid, "2024-01-01")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
