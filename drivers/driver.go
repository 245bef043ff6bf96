package drivers

import (
	"database/sql"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/xo/dburl"
)

// Driver is the uniform data-access contract every backend implements.
// Adapters are stateless: each call opens a fresh connection and closes it
// before returning, so nothing is cached across navigation and every method
// is safe to call from a background command.
type Driver interface {
	// URL derives the connection locator from conn's parameters.
	URL(conn Connection) (string, error)
	// ListDatabases enumerates databases and their table trees.
	ListDatabases(conn Connection) ([]Database, error)
	// ListRecords returns one page of rows, stringified, in the backend's
	// natural order. page.Where, when set, is applied verbatim as the
	// WHERE predicate. Total is best-effort.
	ListRecords(conn Connection, ref TableRef, page Page) (*Records, error)
	// Describe returns the table's column schema.
	Describe(conn Connection, ref TableRef) (*TableProperties, error)
	// ToolName names the external CLI equivalent (pgcli, mycli, litecli).
	ToolName() string
	// ToolCommand builds the external CLI invocation for conn.
	ToolCommand(conn Connection) (*exec.Cmd, error)
}

// For is the facade: the one switch mapping a backend kind to its adapter.
func For(kind Kind) (Driver, error) {
	switch kind {
	case KindMySQL:
		return &MySQL{}, nil
	case KindPostgres:
		return &Postgres{}, nil
	case KindSQLite:
		return &SQLite{}, nil
	}
	return nil, configErrf("unsupported database type %q", kind)
}

// ToolAvailable reports whether the external CLI for kind is on PATH.
func ToolAvailable(kind Kind) bool {
	d, err := For(kind)
	if err != nil {
		return false
	}
	_, err = exec.LookPath(d.ToolName())
	return err == nil
}

// lookTool resolves the CLI binary, mapping a miss to the shared taxonomy.
func lookTool(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", toolErrf("%s not found on PATH", name)
	}
	return path, nil
}

// open dials via dburl and verifies the connection with a ping. The caller
// owns the returned handle.
func open(urlstr, op string, classify func(string, error) error) (*sql.DB, error) {
	db, err := dburl.Open(urlstr)
	if err != nil {
		return nil, wrapErr(ErrConfig, op, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, classify(op, err)
	}
	return db, nil
}

// hostPort formats the authority part shared by the network backends.
func hostPort(conn Connection) string {
	return conn.Host + ":" + strconv.Itoa(conn.Port)
}

func requireFields(conn Connection, fields map[string]string) error {
	for name, val := range fields {
		if val == "" {
			return configErrf("type %s needs the %s field", conn.Type, name)
		}
	}
	return nil
}

// countRows runs a best-effort COUNT(*) and returns TotalUnknown on error.
func countRows(db *sql.DB, query string, args ...any) int {
	var total int
	if err := db.QueryRow(query, args...).Scan(&total); err != nil {
		return TotalUnknown
	}
	return total
}

// scanStringRows drains rows into stringified cells, one slice per row.
func scanStringRows(rows *sql.Rows) ([]string, [][]string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var data [][]string
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(columns))
		for i, val := range values {
			if val == nil {
				row[i] = "NULL"
			} else {
				row[i] = formatSQLValue(val)
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, data, nil
}

// formatSQLValue converts driver values to display strings.
func formatSQLValue(val any) string {
	switch v := val.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
