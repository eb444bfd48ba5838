package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/money"
	"invoice-dashboard-backend/internal/validation"
)

// ParseInvoicesCSV reads invoices from a file with the header
// customer_id,amount,status,date. Amounts are in major units. Rows that
// fail validation are skipped and reported in the returned error.
//
// Each id is derived from source, the line number and the row, so that
// identical rows of one file stay distinct while importing the same file
// twice inserts nothing new.
func ParseInvoicesCSV(r io.Reader, source string) ([]models.Invoice, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"customer_id", "amount", "status", "date"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing column %q", required)
		}
	}
	field := func(record []string, name string) string {
		if i := cols[name]; i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	var (
		invoices []models.Invoice
		skipped  []error
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped = append(skipped, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if strings.Join(record, "") == "" {
			continue
		}

		input, fieldErrs := validation.ParseInvoiceForm(validation.RawInvoiceForm{
			CustomerID: field(record, "customer_id"),
			Amount:     field(record, "amount"),
			Status:     field(record, "status"),
		})
		if fieldErrs != nil {
			skipped = append(skipped, fmt.Errorf("line %d: %v", line, fieldErrs))
			continue
		}

		date := field(record, "date")
		if !validDate(date) {
			skipped = append(skipped, fmt.Errorf("line %d: invalid date %q, expected YYYY-MM-DD", line, date))
			continue
		}

		amount := money.ToMinorUnits(input.Amount)
		invoices = append(invoices, models.Invoice{
			ID:         importedInvoiceID(source, line, input.CustomerID, amount, input.Status, date),
			CustomerID: input.CustomerID,
			Amount:     amount,
			Status:     input.Status,
			Date:       date,
		})
	}

	return invoices, errors.Join(skipped...)
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func importedInvoiceID(source string, line int, customerID string, amount int64, status models.InvoiceStatus, date string) uuid.UUID {
	key := fmt.Sprintf("%s|%d|%s|%d|%s|%s", source, line, customerID, amount, status, date)
	return uuid.NewSHA1(invoiceNamespace, []byte(key))
}
