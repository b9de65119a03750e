package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	numericOverflow     = "22003"
	lockNotAvailable    = "55P03"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key violation
// for a specific constraint. An empty constraintName matches any foreign key.
func IsForeignKeyViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsNumericOverflow reports a value that does not fit its NUMERIC column, e.g. a weight
// of 1000 in a NUMERIC(5,2).
func IsNumericOverflow(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == numericOverflow
}

// IsLockNotAvailable reports a NOWAIT row lock that another transaction already holds.
func IsLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable
}

// IsDatabaseError reports whether err came from the database driver: a server-side
// error, a failed connection, or a query that timed out.
func IsDatabaseError(err error) bool {
	var pgErr *pgconn.PgError
	var connErr *pgconn.ConnectError
	return errors.As(err, &pgErr) || errors.As(err, &connErr) || pgconn.Timeout(err)
}
