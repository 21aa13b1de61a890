package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConnection marks failures to reach the database or to authenticate.
// They are surfaced as is; nothing in this module retries them.
var ErrConnection = errors.New("database connection failed")

// QueryError is a statement that reached the server and failed there
// (bad SQL, constraint violation, ...).
type QueryError struct {
	// SQLSTATE reported by the server, empty when the driver gave none.
	Code    string
	Message string
	err     error
}

func (e *QueryError) Error() string {
	if e.Code == "" {
		return "query failed: " + e.Message
	}
	return fmt.Sprintf("query failed (%s): %s", e.Code, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.err
}

// Classify sorts err into ErrConnection or *QueryError. Context errors and
// already classified errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var qe *QueryError
	if errors.Is(err, ErrConnection) || errors.As(err, &qe) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if isConnectionState(pgErr.Code) {
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		return &QueryError{Code: pgErr.Code, Message: pgErr.Message, err: err}
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return &QueryError{Message: err.Error(), err: err}
}

// Class 08 is "connection exception", 28 "invalid authorization", 57P0x
// covers server shutdown and "cannot connect now".
func isConnectionState(code string) bool {
	return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "28") || strings.HasPrefix(code, "57P0")
}
