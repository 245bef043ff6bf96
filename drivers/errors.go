package drivers

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrorKind classifies adapter failures so the UI never has to inspect
// backend-specific error types.
type ErrorKind int

const (
	ErrConfig ErrorKind = iota // malformed or incomplete connection parameters
	ErrConnection              // backend unreachable
	ErrAuth                    // authentication rejected
	ErrNotFound                // database or table does not exist
	ErrQuery                   // fetch or describe failed
	ErrTool                    // external CLI binary missing
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConfig:
		return "config"
	case ErrConnection:
		return "connection"
	case ErrAuth:
		return "auth"
	case ErrNotFound:
		return "not found"
	case ErrQuery:
		return "query"
	case ErrTool:
		return "tool"
	}
	return "unknown"
}

// Error is the shared error type returned by all adapters.
type Error struct {
	Kind ErrorKind
	Op   string // e.g. "mysql: list records"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification from err, defaulting to ErrQuery for
// errors that did not come from an adapter.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrQuery
}

func configErrf(format string, args ...any) error {
	return &Error{Kind: ErrConfig, Op: fmt.Sprintf(format, args...)}
}

func toolErrf(format string, args ...any) error {
	return &Error{Kind: ErrTool, Op: fmt.Sprintf(format, args...)}
}

func wrapErr(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// MySQL server error numbers worth distinguishing.
const (
	mysqlErrAccessDenied   = 1045
	mysqlErrUnknownDB      = 1049
	mysqlErrNoSuchTable    = 1146
	mysqlErrDBAccessDenied = 1044
)

// classifyMySQL maps go-sql-driver errors into the shared taxonomy.
func classifyMySQL(op string, err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlErrAccessDenied, mysqlErrDBAccessDenied:
			return wrapErr(ErrAuth, op, err)
		case mysqlErrUnknownDB, mysqlErrNoSuchTable:
			return wrapErr(ErrNotFound, op, err)
		}
		return wrapErr(ErrQuery, op, err)
	}
	if errors.Is(err, mysql.ErrInvalidConn) {
		return wrapErr(ErrConnection, op, err)
	}
	// Dial failures surface as plain net errors before the handshake.
	return wrapErr(ErrConnection, op, err)
}

// classifyPostgres maps lib/pq errors into the shared taxonomy using the
// SQLSTATE class.
func classifyPostgres(op string, err error) error {
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch pe.Code.Class() {
		case "28": // invalid authorization
			return wrapErr(ErrAuth, op, err)
		case "3D", "42": // invalid catalog name, undefined table/column
			return wrapErr(ErrNotFound, op, err)
		case "08": // connection exception
			return wrapErr(ErrConnection, op, err)
		}
		return wrapErr(ErrQuery, op, err)
	}
	return wrapErr(ErrConnection, op, err)
}
