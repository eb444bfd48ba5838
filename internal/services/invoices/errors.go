package invoices

import "errors"

var (
	// ErrInvoiceNotFound is returned when an update targets an unknown invoice.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrDeletionDisabled is returned by every delete while the feature is switched off.
	ErrDeletionDisabled = errors.New("invoice deletion is disabled")
)

// MsgDeleteFailed is shown to users when a delete is refused.
const MsgDeleteFailed = "Failed to Delete Invoice"

// WriteError reports a failed insert, update or delete.
type WriteError struct {
	Op  string // Create, Update or Delete
	Err error
}

func (e *WriteError) Error() string {
	return "Database Error: Failed to " + e.Op + " Invoice."
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
