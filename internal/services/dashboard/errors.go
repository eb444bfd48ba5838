package dashboard

import "errors"

// ErrInvoiceNotFound is returned when an invoice id matches no row.
var ErrInvoiceNotFound = errors.New("invoice not found")

// DatabaseError reports a failed read. The cause is kept for logging and
// errors.Is but is not part of the message shown to users.
type DatabaseError struct {
	What string
	Err  error
}

func (e *DatabaseError) Error() string {
	return "Database Error: Failed to fetch " + e.What + "."
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}
