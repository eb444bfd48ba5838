// Package invoices implements the invoice mutations behind the dashboard
// forms. A mutation validates its form, writes one row, drops the cached
// invoice views and tells the caller where to redirect.
package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoice-dashboard-backend/internal/auth"
	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/logger"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/money"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/validation"
)

const (
	// RedirectPath is where every successful mutation sends the user.
	RedirectPath = "/dashboard/invoices"

	MsgCreateMissingFields = "Missing Fields. Failed to Create Invoice."
	MsgUpdateMissingFields = "Missing Fields. Failed to Update Invoice."

	dateLayout = "2006-01-02"
)

// Result is the outcome of a mutation that did not fail on the backend.
// Either Errors and Message describe a rejected form, or Redirect is set.
type Result struct {
	Errors   validation.FieldErrors `json:"errors,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Redirect string                 `json:"-"`
}

// OK reports whether the mutation was applied.
func (r *Result) OK() bool {
	return r != nil && r.Redirect != ""
}

type InvoiceWriter interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, id uuid.UUID, customerID string, amount int64, status models.InvoiceStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AuditWriter interface {
	Create(ctx context.Context, entry *models.InvoiceAuditLog) error
}

var (
	_ InvoiceWriter = (*repository.InvoiceRepository)(nil)
	_ AuditWriter   = (*repository.AuditRepository)(nil)
)

type Service struct {
	invoices    InvoiceWriter
	audit       AuditWriter
	store       cache.Store
	now         func() time.Time
	newID       func() uuid.UUID
	allowDelete bool
	logger      *zap.Logger
}

// Option is a functional option for configuring the service
type Option func(*Service)

// WithCache drops dashboard views from store after every write.
func WithCache(store cache.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

func WithAudit(audit AuditWriter) Option {
	return func(s *Service) {
		s.audit = audit
	}
}

// WithClock sets the clock used to date new invoices.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDeletion switches invoice deletion on or off. It is off by default.
func WithDeletion(enabled bool) Option {
	return func(s *Service) {
		s.allowDelete = enabled
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func NewService(invoices InvoiceWriter, opts ...Option) *Service {
	s := &Service{
		invoices: invoices,
		now:      time.Now,
		newID:    uuid.New,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice validates raw and inserts a pending or paid invoice dated today (UTC).
func (s *Service) CreateInvoice(ctx context.Context, raw validation.RawInvoiceForm) (*Result, error) {
	input, fieldErrs := validation.ParseInvoiceForm(raw)
	if fieldErrs != nil {
		return &Result{Errors: fieldErrs, Message: MsgCreateMissingFields}, nil
	}

	invoice := &models.Invoice{
		ID:         s.newID(),
		CustomerID: input.CustomerID,
		Amount:     money.ToMinorUnits(input.Amount),
		Status:     input.Status,
		Date:       s.now().UTC().Format(dateLayout),
	}

	err := s.invoices.Create(ctx, invoice)
	if errors.Is(err, repository.ErrInvalidReference) {
		return unknownCustomer(MsgCreateMissingFields), nil
	}
	if err != nil {
		return nil, s.writeFailed(ctx, "Create", err)
	}

	s.afterWrite(ctx, invoice.ID, models.AuditActionCreate, invoice)
	return &Result{Redirect: RedirectPath}, nil
}

// UpdateInvoice validates raw and overwrites customer, amount and status of
// the invoice id. The invoice date is kept.
func (s *Service) UpdateInvoice(ctx context.Context, id string, raw validation.RawInvoiceForm) (*Result, error) {
	input, fieldErrs := validation.ParseInvoiceForm(raw)
	if fieldErrs != nil {
		return &Result{Errors: fieldErrs, Message: MsgUpdateMissingFields}, nil
	}

	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvoiceNotFound
	}

	amount := money.ToMinorUnits(input.Amount)
	err = s.invoices.Update(ctx, invoiceID, input.CustomerID, amount, input.Status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if errors.Is(err, repository.ErrInvalidReference) {
		return unknownCustomer(MsgUpdateMissingFields), nil
	}
	if err != nil {
		return nil, s.writeFailed(ctx, "Update", err)
	}

	s.afterWrite(ctx, invoiceID, models.AuditActionUpdate, map[string]any{
		"customer_id": input.CustomerID,
		"amount":      amount,
		"status":      input.Status,
	})
	return &Result{Redirect: RedirectPath}, nil
}

// unknownCustomer reports a customer id the database rejected as a form error.
func unknownCustomer(message string) *Result {
	return &Result{
		Errors:  validation.FieldErrors{"customerId": {validation.MsgSelectCustomer}},
		Message: message,
	}
}

// DeleteInvoice removes the invoice id when deletion is enabled.
// While disabled it fails with ErrDeletionDisabled and writes nothing.
func (s *Service) DeleteInvoice(ctx context.Context, id string) (*Result, error) {
	if !s.allowDelete {
		return nil, ErrDeletionDisabled
	}

	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvoiceNotFound
	}

	if err := s.invoices.Delete(ctx, invoiceID); err != nil {
		return nil, s.writeFailed(ctx, "Delete", err)
	}

	s.afterWrite(ctx, invoiceID, models.AuditActionDelete, map[string]any{"id": invoiceID})
	return &Result{Redirect: RedirectPath}, nil
}

func (s *Service) writeFailed(ctx context.Context, op string, err error) error {
	logger.Or(ctx, s.logger).Error("Database Error",
		zap.String("op", op),
		zap.Error(err))
	return &WriteError{Op: op, Err: err}
}

// afterWrite records the audit entry and then drops every cached
// dashboard view. Cards, latest invoices, customer totals and invoice
// history all derive from rows written here, so the whole /dashboard
// scope goes. Failures are logged; the write itself already succeeded.
func (s *Service) afterWrite(ctx context.Context, id uuid.UUID, action models.AuditAction, payload any) {
	log := logger.Or(ctx, s.logger)

	s.recordAudit(ctx, log, id, action, payload)

	if s.store != nil {
		if err := s.store.Invalidate(ctx, cache.ScopeDashboard); err != nil {
			log.Error("Failed to invalidate dashboard views", zap.Error(err))
		}
	}
}

func (s *Service) recordAudit(ctx context.Context, log *zap.Logger, id uuid.UUID, action models.AuditAction, payload any) {
	if s.audit == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn("Failed to encode audit payload", zap.Error(err))
		return
	}
	entry := &models.InvoiceAuditLog{
		ID:          uuid.New(),
		InvoiceID:   id,
		Action:      action,
		PerformedBy: auth.Actor(ctx),
		Payload:     data,
		CreatedAt:   s.now(),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		log.Warn("Failed to record invoice audit entry",
			zap.String("invoice_id", id.String()),
			zap.Error(err))
	}
}
