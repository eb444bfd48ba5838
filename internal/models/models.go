package models

// All returns every model managed by AutoMigrate.
func All() []any {
	return []any{
		&Customer{},
		&Invoice{},
		&Revenue{},
		&User{},
		&InvoiceAuditLog{},
	}
}
