package drivers

import "fmt"

// Kind identifies a supported database backend.
type Kind string

const (
	KindMySQL    Kind = "mysql"
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
)

// Kinds lists every supported backend, in display order.
var Kinds = []Kind{KindMySQL, KindPostgres, KindSQLite}

// Valid reports whether k names a supported backend.
func (k Kind) Valid() bool {
	switch k {
	case KindMySQL, KindPostgres, KindSQLite:
		return true
	}
	return false
}

// Connection holds the parameters of one configured connection.
// Immutable once loaded; identified by Name.
type Connection struct {
	Name     string `yaml:"name"`
	Type     Kind   `yaml:"type"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
	Path     string `yaml:"path,omitempty"` // sqlite file
}

// TableRef identifies a table within a connection. It doubles as the
// request identity used to discard stale fetch results.
type TableRef struct {
	Database string
	Schema   string // empty for mysql/sqlite
	Table    string
}

func (r TableRef) String() string {
	if r.Schema != "" {
		return r.Database + "." + r.Schema + "." + r.Table
	}
	return r.Database + "." + r.Table
}

// Table is a leaf in the database tree.
type Table struct {
	Name   string
	Schema string // postgres only
	Engine string // mysql only
}

// Schema groups tables under a postgres schema.
type Schema struct {
	Name   string
	Tables []Table
}

// Database is one entry in the tree shown by the DB list. Either Tables
// or Schemas is populated, never both.
type Database struct {
	Name    string
	Tables  []Table
	Schemas []Schema
}

// TotalUnknown marks a Records.Total that could not be computed.
const TotalUnknown = -1

// Page describes one records fetch: a window plus an optional
// backend-native WHERE predicate (without the WHERE keyword).
type Page struct {
	Limit  int
	Offset int
	Where  string
}

// Records is an immutable snapshot of one page of table rows. Every cell
// is already stringified by the adapter.
type Records struct {
	Columns []string
	Rows    [][]string
	Total   int // TotalUnknown if counting failed or was skipped
	Offset  int
	Limit   int
}

// ColumnInfo describes one column of a table schema.
type ColumnInfo struct {
	Name       string
	DataType   string
	Nullable   bool
	Default    string
	PrimaryKey bool
	Extra      string // e.g. auto_increment
}

// TableProperties is the schema snapshot shown by the Properties tab.
type TableProperties struct {
	Columns []ColumnInfo
}

// DisplayURL is the connection locator with the password elided, safe to
// render on the connection screen.
func DisplayURL(conn Connection) string {
	d, err := For(conn.Type)
	if err != nil {
		return "unsupported type"
	}
	redacted := conn
	if redacted.Password != "" {
		redacted.Password = "***"
	}
	u, err := d.URL(redacted)
	if err != nil {
		return fmt.Sprintf("invalid config: %v", err)
	}
	return u
}
