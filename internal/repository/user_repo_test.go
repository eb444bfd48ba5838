package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/testutil"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Name: "User", Email: "user@nextmail.com", Password: "hash"}
	require.NoError(t, repo.CreateIfAbsent(ctx, user))

	t.Run("exact email", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "user@nextmail.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "hash", found.Password)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@nextmail.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate email is ignored", func(t *testing.T) {
		dup := &models.User{ID: uuid.New(), Name: "Other", Email: "user@nextmail.com", Password: "x"}
		require.NoError(t, repo.CreateIfAbsent(ctx, dup))

		found, err := repo.GetByEmail(ctx, "user@nextmail.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})
}

func TestRevenueRepository_List(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.DefaultFixtures().Load(t, db)

	revenue, err := NewRevenueRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Revenue{
		{Month: "Jan", Revenue: 2000},
		{Month: "Feb", Revenue: 1800},
	}, revenue)
}

func TestAuditRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	invoiceID := uuid.New()
	require.NoError(t, repo.Create(ctx, &models.InvoiceAuditLog{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Action:    models.AuditActionCreate,
		Payload:   []byte(`{"amount":4550}`),
	}))

	entries, err := repo.ListByInvoice(ctx, invoiceID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionCreate, entries[0].Action)
	assert.JSONEq(t, `{"amount":4550}`, string(entries[0].Payload))
}
