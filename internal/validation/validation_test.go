package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-dashboard-backend/internal/models"
)

func TestParseInvoiceForm(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		input, errs := ParseInvoiceForm(RawInvoiceForm{CustomerID: "c1", Amount: "45.50", Status: "pending"})
		require.Nil(t, errs)
		require.NotNil(t, input)

		assert.Equal(t, "c1", input.CustomerID)
		assert.Equal(t, "45.5", input.Amount.String())
		assert.Equal(t, models.InvoiceStatusPending, input.Status)
	})

	t.Run("all fields missing", func(t *testing.T) {
		input, errs := ParseInvoiceForm(RawInvoiceForm{})
		assert.Nil(t, input)
		assert.Equal(t, FieldErrors{
			"customerId": {MsgSelectCustomer},
			"amount":     {MsgAmountPositive},
			"status":     {MsgSelectStatus},
		}, errs)
	})

	t.Run("blank customer", func(t *testing.T) {
		_, errs := ParseInvoiceForm(RawInvoiceForm{CustomerID: "   ", Amount: "1", Status: "paid"})
		assert.Equal(t, FieldErrors{"customerId": {MsgSelectCustomer}}, errs)
	})

	t.Run("amount must be strictly positive", func(t *testing.T) {
		for _, amount := range []string{"0", "-5", "0.00", "abc", "", "0.004", "1e20", "100000000000000000", "92233720368547758.08"} {
			_, errs := ParseInvoiceForm(RawInvoiceForm{CustomerID: "c1", Amount: amount, Status: "paid"})
			assert.Equal(t, FieldErrors{"amount": {MsgAmountPositive}}, errs, "amount %q", amount)
		}
	})

	t.Run("amounts at the edges of the cent range are accepted", func(t *testing.T) {
		for _, amount := range []string{"0.005", "0.01", "92233720368547758.07"} {
			input, errs := ParseInvoiceForm(RawInvoiceForm{CustomerID: "c1", Amount: amount, Status: "paid"})
			require.Nil(t, errs, "amount %q", amount)
			assert.True(t, input.Amount.IsPositive())
		}
	})

	t.Run("amount with surrounding space is coerced", func(t *testing.T) {
		input, errs := ParseInvoiceForm(RawInvoiceForm{CustomerID: "c1", Amount: " 12.30 ", Status: "paid"})
		require.Nil(t, errs)
		assert.Equal(t, "12.3", input.Amount.String())
	})

	t.Run("unknown status", func(t *testing.T) {
		_, errs := ParseInvoiceForm(RawInvoiceForm{CustomerID: "c1", Amount: "10", Status: "overdue"})
		assert.Equal(t, FieldErrors{"status": {MsgSelectStatus}}, errs)
	})
}

func TestValidCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"valid", Credentials{Email: "user@nextmail.com", Password: "123456"}, true},
		{"short password", Credentials{Email: "user@nextmail.com", Password: "12345"}, false},
		{"bad email", Credentials{Email: "user", Password: "123456"}, false},
		{"empty", Credentials{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCredentials(tt.creds))
		})
	}
}
