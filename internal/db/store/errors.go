package store

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNotFound is returned when no row has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a unique name is already taken.
	ErrDuplicateName = errors.New("name already exists")
	// ErrInUse is returned when a foreign key blocks a write or delete,
	// e.g. deleting a room that still has reservations.
	ErrInUse = errors.New("referenced by other records")
	// ErrUnknownSortField is returned for a sort field outside the whitelist.
	ErrUnknownSortField = errors.New("unknown sort field")
)

// Driver error codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// translate maps driver and gorm errors onto the store sentinels.
// Unknown errors are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateName
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInUse
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateName
		case pgForeignKeyViolation:
			return ErrInUse
		}
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return ErrDuplicateName
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return ErrInUse
		}
	}

	// sqlite reports constraint failures only in the message
	msg := err.Error()

	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrDuplicateName
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrInUse
	}

	return err
}
