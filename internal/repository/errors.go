package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup or targeted write matches no row.
var ErrNotFound = errors.New("record not found")

// ErrInvalidReference is returned when a write names a row by an id the
// database cannot accept, either malformed or pointing nowhere.
var ErrInvalidReference = errors.New("invalid reference")

const (
	pgInvalidTextRepresentation = "22P02"
	pgForeignKeyViolation       = "23503"
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func translateWrite(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidTextRepresentation, pgForeignKeyViolation:
			return errors.Join(ErrInvalidReference, err)
		}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.Join(ErrInvalidReference, err)
	}
	return err
}
