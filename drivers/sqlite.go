package drivers

import (
	"database/sql"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dbnav/dbnav/logger"
)

// SQLite adapts the contract to a database file via the pure-Go modernc
// driver. The file is the single database; its display name is the
// connection name or the file stem.
type SQLite struct{}

func (d *SQLite) URL(conn Connection) (string, error) {
	path, err := d.filePath(conn)
	if err != nil {
		return "", err
	}
	return "sqlite:" + path, nil
}

func (d *SQLite) filePath(conn Connection) (string, error) {
	if conn.Path == "" {
		return "", configErrf("type sqlite needs the path field")
	}
	return expandPath(conn.Path), nil
}

func (d *SQLite) openFile(conn Connection, op string) (*sql.DB, error) {
	path, err := d.filePath(conn)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, wrapErr(ErrNotFound, op, err)
	}
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, wrapErr(ErrConnection, op, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrapErr(ErrConnection, op, err)
	}
	return db, nil
}

func (d *SQLite) databaseName(conn Connection) string {
	if conn.Name != "" {
		return conn.Name
	}
	path, err := d.filePath(conn)
	if err != nil {
		return "sqlite"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (d *SQLite) ListDatabases(conn Connection) ([]Database, error) {
	const op = "sqlite: list databases"
	db, err := d.openFile(conn, op)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Name); err != nil {
			return nil, wrapErr(ErrQuery, op, err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}
	logger.Debug("sqlite: tables loaded", map[string]any{"count": len(tables)})
	return []Database{{Name: d.databaseName(conn), Tables: tables}}, nil
}

func (d *SQLite) ListRecords(conn Connection, ref TableRef, page Page) (*Records, error) {
	const op = "sqlite: list records"
	db, err := d.openFile(conn, op)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	target := quoteSQLite(ref.Table)
	where := ""
	if strings.TrimSpace(page.Where) != "" {
		where = " WHERE " + page.Where
	}
	query := fmt.Sprintf("SELECT * FROM %s%s LIMIT ? OFFSET ?", target, where)
	logger.Debug("sqlite: fetching records", map[string]any{
		"table":  ref.Table,
		"limit":  page.Limit,
		"offset": page.Offset,
		"where":  page.Where,
	})
	rows, err := db.Query(query, page.Limit, page.Offset)
	if err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}
	defer rows.Close()

	columns, data, err := scanStringRows(rows)
	if err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}

	return &Records{
		Columns: columns,
		Rows:    data,
		Total:   countRows(db, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", target, where)),
		Offset:  page.Offset,
		Limit:   page.Limit,
	}, nil
}

func (d *SQLite) Describe(conn Connection, ref TableRef) (*TableProperties, error) {
	const op = "sqlite: describe table"
	db, err := d.openFile(conn, op)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLite(ref.Table)))
	if err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}
	defer rows.Close()

	var props TableProperties
	for rows.Next() {
		var (
			cid     int
			col     ColumnInfo
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &col.Name, &col.DataType, &notNull, &dflt, &pk); err != nil {
			return nil, wrapErr(ErrQuery, op, err)
		}
		col.Nullable = notNull == 0
		col.Default = dflt.String
		col.PrimaryKey = pk > 0
		props.Columns = append(props.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}
	if len(props.Columns) == 0 {
		return nil, &Error{Kind: ErrNotFound, Op: op + ": " + ref.Table}
	}
	return &props, nil
}

func (d *SQLite) ToolName() string { return "litecli" }

// ToolCommand hands litecli the file path directly; it does not speak URLs.
func (d *SQLite) ToolCommand(conn Connection) (*exec.Cmd, error) {
	bin, err := lookTool(d.ToolName())
	if err != nil {
		return nil, err
	}
	path, err := d.filePath(conn)
	if err != nil {
		return nil, err
	}
	return exec.Command(bin, path), nil
}

func quoteSQLite(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// expandPath resolves a leading ~ and $VAR segments so config paths like
// ~/data/sample.db work as written.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
