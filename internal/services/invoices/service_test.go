package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-dashboard-backend/internal/auth"
	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/services/dashboard"
	"invoice-dashboard-backend/internal/testutil"
	"invoice-dashboard-backend/internal/validation"
)

type recordingWriter struct {
	created []*models.Invoice
	updated []uuid.UUID
	deleted []uuid.UUID
	err     error
}

func (w *recordingWriter) Create(_ context.Context, invoice *models.Invoice) error {
	if w.err != nil {
		return w.err
	}
	w.created = append(w.created, invoice)
	return nil
}

func (w *recordingWriter) Update(_ context.Context, id uuid.UUID, _ string, _ int64, _ models.InvoiceStatus) error {
	if w.err != nil {
		return w.err
	}
	w.updated = append(w.updated, id)
	return nil
}

func (w *recordingWriter) Delete(_ context.Context, id uuid.UUID) error {
	if w.err != nil {
		return w.err
	}
	w.deleted = append(w.deleted, id)
	return nil
}

type recordingAudit struct {
	entries []*models.InvoiceAuditLog
	err     error
}

func (a *recordingAudit) Create(_ context.Context, entry *models.InvoiceAuditLog) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, entry)
	return nil
}

// fixedClock is late on May 17 in Chicago, already May 18 in UTC.
func fixedClock() time.Time {
	loc := time.FixedZone("CDT", -5*60*60)
	return time.Date(2024, 5, 17, 23, 30, 0, 0, loc)
}

func newStoreWithViews(t *testing.T) *cache.MemoryStore {
	t.Helper()
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, cache.ScopeInvoices, cache.Key(cache.ScopeInvoices, "query=", "offset=0"), []byte("[]"), time.Hour))
	require.NoError(t, store.Set(ctx, cache.ScopeCustomers, cache.Key(cache.ScopeCustomers, "all"), []byte("[]"), time.Hour))
	require.NoError(t, store.Set(ctx, cache.ScopeDashboard, cache.Key(cache.ScopeDashboard, "cards"), []byte("{}"), time.Hour))
	return store
}

func invoiceViewCached(t *testing.T, store cache.Store) bool {
	t.Helper()
	_, ok, err := store.Get(context.Background(), cache.Key(cache.ScopeInvoices, "query=", "offset=0"))
	require.NoError(t, err)
	return ok
}

func TestService_CreateInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("valid form inserts cents dated today and redirects", func(t *testing.T) {
		writer := &recordingWriter{}
		audit := &recordingAudit{}
		store := newStoreWithViews(t)
		svc := NewService(writer, WithCache(store), WithAudit(audit), WithClock(fixedClock))

		result, err := svc.CreateInvoice(ctx, validation.RawInvoiceForm{CustomerID: "c1", Amount: "45.50", Status: "pending"})
		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, "/dashboard/invoices", result.Redirect)

		require.Len(t, writer.created, 1)
		created := writer.created[0]
		assert.Equal(t, "c1", created.CustomerID)
		assert.Equal(t, int64(4550), created.Amount)
		assert.Equal(t, models.InvoiceStatusPending, created.Status)
		assert.Equal(t, "2024-05-18", created.Date)

		assert.False(t, invoiceViewCached(t, store), "invoice views are dropped")
		_, ok, _ := store.Get(ctx, cache.Key(cache.ScopeCustomers, "all"))
		assert.False(t, ok, "customer views are dropped")
		_, ok, _ = store.Get(ctx, cache.Key(cache.ScopeDashboard, "cards"))
		assert.False(t, ok, "cards are dropped")

		require.Len(t, audit.entries, 1)
		assert.Equal(t, models.AuditActionCreate, audit.entries[0].Action)
		assert.Equal(t, created.ID, audit.entries[0].InvoiceID)
	})

	t.Run("invalid form returns field errors and writes nothing", func(t *testing.T) {
		writer := &recordingWriter{}
		store := newStoreWithViews(t)
		svc := NewService(writer, WithCache(store))

		result, err := svc.CreateInvoice(ctx, validation.RawInvoiceForm{CustomerID: "", Amount: "0", Status: "pending"})
		require.NoError(t, err)
		assert.False(t, result.OK())
		assert.Equal(t, MsgCreateMissingFields, result.Message)
		assert.Equal(t, validation.FieldErrors{
			"customerId": {validation.MsgSelectCustomer},
			"amount":     {validation.MsgAmountPositive},
		}, result.Errors)

		assert.Empty(t, writer.created)
		assert.True(t, invoiceViewCached(t, store))
	})

	t.Run("backend failure is reported and nothing is invalidated", func(t *testing.T) {
		cause := errors.New("insert failed")
		writer := &recordingWriter{err: cause}
		store := newStoreWithViews(t)
		svc := NewService(writer, WithCache(store))

		result, err := svc.CreateInvoice(ctx, validation.RawInvoiceForm{CustomerID: "c1", Amount: "10", Status: "paid"})
		assert.Nil(t, result)

		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr)
		assert.Equal(t, "Database Error: Failed to Create Invoice.", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.True(t, invoiceViewCached(t, store))
	})

	t.Run("audit failure does not change the outcome", func(t *testing.T) {
		svc := NewService(&recordingWriter{}, WithAudit(&recordingAudit{err: errors.New("audit down")}))

		result, err := svc.CreateInvoice(ctx, validation.RawInvoiceForm{CustomerID: "c1", Amount: "10", Status: "paid"})
		require.NoError(t, err)
		assert.True(t, result.OK())
	})
}

func TestService_UpdateInvoice(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("valid form updates and redirects", func(t *testing.T) {
		writer := &recordingWriter{}
		store := newStoreWithViews(t)
		svc := NewService(writer, WithCache(store))

		result, err := svc.UpdateInvoice(ctx, id, validation.RawInvoiceForm{CustomerID: "c1", Amount: "12.34", Status: "paid"})
		require.NoError(t, err)
		assert.Equal(t, RedirectPath, result.Redirect)
		assert.Equal(t, []uuid.UUID{uuid.MustParse(id)}, writer.updated)
		assert.False(t, invoiceViewCached(t, store))
	})

	t.Run("invalid form returns field errors", func(t *testing.T) {
		writer := &recordingWriter{}
		svc := NewService(writer)

		result, err := svc.UpdateInvoice(ctx, id, validation.RawInvoiceForm{CustomerID: "c1", Amount: "5", Status: "void"})
		require.NoError(t, err)
		assert.Equal(t, MsgUpdateMissingFields, result.Message)
		assert.Equal(t, validation.FieldErrors{"status": {validation.MsgSelectStatus}}, result.Errors)
		assert.Empty(t, writer.updated)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := NewService(&recordingWriter{err: repository.ErrNotFound})

		_, err := svc.UpdateInvoice(ctx, id, validation.RawInvoiceForm{CustomerID: "c1", Amount: "5", Status: "paid"})
		assert.ErrorIs(t, err, ErrInvoiceNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		writer := &recordingWriter{}
		svc := NewService(writer)

		_, err := svc.UpdateInvoice(ctx, "42", validation.RawInvoiceForm{CustomerID: "c1", Amount: "5", Status: "paid"})
		assert.ErrorIs(t, err, ErrInvoiceNotFound)
		assert.Empty(t, writer.updated)
	})

	t.Run("backend failure", func(t *testing.T) {
		svc := NewService(&recordingWriter{err: errors.New("timeout")})

		_, err := svc.UpdateInvoice(ctx, id, validation.RawInvoiceForm{CustomerID: "c1", Amount: "5", Status: "paid"})
		assert.EqualError(t, err, "Database Error: Failed to Update Invoice.")
	})
}

func TestService_DeleteInvoice(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("disabled by default and never deletes", func(t *testing.T) {
		writer := &recordingWriter{}
		store := newStoreWithViews(t)
		svc := NewService(writer, WithCache(store))

		for i := 0; i < 3; i++ {
			result, err := svc.DeleteInvoice(ctx, id)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrDeletionDisabled)
		}
		assert.Empty(t, writer.deleted)
		assert.True(t, invoiceViewCached(t, store))
	})

	t.Run("enabled deletes and redirects", func(t *testing.T) {
		writer := &recordingWriter{}
		store := newStoreWithViews(t)
		svc := NewService(writer, WithCache(store), WithDeletion(true))

		result, err := svc.DeleteInvoice(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, RedirectPath, result.Redirect)
		assert.Len(t, writer.deleted, 1)
		assert.False(t, invoiceViewCached(t, store))
	})

	t.Run("enabled backend failure", func(t *testing.T) {
		svc := NewService(&recordingWriter{err: errors.New("locked")}, WithDeletion(true))

		_, err := svc.DeleteInvoice(ctx, id)
		assert.EqualError(t, err, "Database Error: Failed to Delete Invoice.")
	})
}

func TestService_AgainstDatabase(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.DefaultFixtures().Load(t, db)
	ctx := auth.WithClaims(context.Background(), &auth.Claims{Email: "user@nextmail.com"})

	invoicesRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	svc := NewService(invoicesRepo, WithAudit(auditRepo), WithClock(fixedClock), WithDeletion(true))

	result, err := svc.CreateInvoice(ctx, validation.RawInvoiceForm{
		CustomerID: testutil.LeeID.String(), Amount: "45.50", Status: "pending",
	})
	require.NoError(t, err)
	require.True(t, result.OK())

	count, err := invoicesRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)

	id := testutil.InvoiceID(2)
	_, err = svc.UpdateInvoice(ctx, id.String(), validation.RawInvoiceForm{
		CustomerID: testutil.LeeID.String(), Amount: "99.99", Status: "paid",
	})
	require.NoError(t, err)

	updated, err := invoicesRepo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(9999), updated.Amount)
	assert.Equal(t, "2022-11-14", updated.Date)

	entries, err := auditRepo.ListByInvoice(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user@nextmail.com", entries[0].PerformedBy)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(entries[0].Payload, &payload))
	assert.Equal(t, float64(9999), payload["amount"])

	_, err = svc.UpdateInvoice(ctx, uuid.NewString(), validation.RawInvoiceForm{
		CustomerID: testutil.LeeID.String(), Amount: "1", Status: "paid",
	})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	_, err = svc.DeleteInvoice(ctx, id.String())
	require.NoError(t, err)
	_, err = invoicesRepo.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestService_WritesRefreshDashboardViews(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.DefaultFixtures().Load(t, db)
	ctx := context.Background()

	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	invoicesRepo := repository.NewInvoiceRepository(db)
	reads := dashboard.NewService(invoicesRepo, repository.NewCustomerRepository(db), repository.NewRevenueRepository(db),
		dashboard.WithCache(store, time.Hour))
	writes := NewService(invoicesRepo, WithCache(store), WithDeletion(true))

	cards, err := reads.FetchCardData(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(7), cards.NumberOfInvoices)
	customers, err := reads.FetchFilteredCustomers(ctx, "lee")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, int64(2), customers[0].TotalInvoices)

	result, err := writes.CreateInvoice(ctx, validation.RawInvoiceForm{
		CustomerID: testutil.LeeID.String(), Amount: "45.50", Status: "pending",
	})
	require.NoError(t, err)
	require.True(t, result.OK())

	cards, err = reads.FetchCardData(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), cards.NumberOfInvoices)
	assert.Equal(t, "$1,301.82", cards.TotalPendingInvoices)

	latest, err := reads.FetchLatestInvoices(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, latest)
	assert.Equal(t, "Lee Robinson", latest[0].Name)
	assert.Equal(t, "$45.50", latest[0].Amount)

	customers, err = reads.FetchFilteredCustomers(ctx, "lee")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, int64(3), customers[0].TotalInvoices)
	assert.Equal(t, "$587.96", customers[0].TotalPending)

	_, err = writes.DeleteInvoice(ctx, testutil.InvoiceID(6).String())
	require.NoError(t, err)

	cards, err = reads.FetchCardData(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cards.NumberOfInvoices)
}

func TestService_CreateInvoice_RejectsUnstorableAmounts(t *testing.T) {
	for _, amount := range []string{"0.004", "1e20", "100000000000000000"} {
		writer := &recordingWriter{}
		svc := NewService(writer)

		result, err := svc.CreateInvoice(context.Background(), validation.RawInvoiceForm{CustomerID: "c1", Amount: amount, Status: "paid"})
		require.NoError(t, err)
		assert.Equal(t, validation.FieldErrors{"amount": {validation.MsgAmountPositive}}, result.Errors, "amount %q", amount)
		assert.Empty(t, writer.created, "amount %q", amount)
	}
}

func TestService_RejectedCustomerIDIsAFieldError(t *testing.T) {
	ctx := context.Background()
	rejected := errors.Join(repository.ErrInvalidReference, errors.New(`invalid input syntax for type uuid: "c1"`))
	form := validation.RawInvoiceForm{CustomerID: "c1", Amount: "10", Status: "paid"}

	t.Run("create", func(t *testing.T) {
		store := newStoreWithViews(t)
		svc := NewService(&recordingWriter{err: rejected}, WithCache(store))

		result, err := svc.CreateInvoice(ctx, form)
		require.NoError(t, err)
		assert.Equal(t, MsgCreateMissingFields, result.Message)
		assert.Equal(t, validation.FieldErrors{"customerId": {validation.MsgSelectCustomer}}, result.Errors)
		assert.True(t, invoiceViewCached(t, store))
	})

	t.Run("update", func(t *testing.T) {
		svc := NewService(&recordingWriter{err: rejected})

		result, err := svc.UpdateInvoice(ctx, uuid.NewString(), form)
		require.NoError(t, err)
		assert.Equal(t, MsgUpdateMissingFields, result.Message)
		assert.Equal(t, validation.FieldErrors{"customerId": {validation.MsgSelectCustomer}}, result.Errors)
	})
}
