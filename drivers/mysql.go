package drivers

import (
	"database/sql"
	"fmt"
	"os/exec"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/dbnav/dbnav/logger"
)

// MySQL adapts the contract to a MySQL server via go-sql-driver.
type MySQL struct{}

// Schemas MySQL manages for itself; never shown in the tree.
var mysqlInternalSchemas = map[string]bool{
	"information_schema": true,
	"mysql":              true,
	"performance_schema": true,
	"sys":                true,
}

func (d *MySQL) URL(conn Connection) (string, error) {
	if err := requireFields(conn, map[string]string{
		"user": conn.User,
		"host": conn.Host,
	}); err != nil {
		return "", err
	}
	if conn.Port == 0 {
		return "", configErrf("type mysql needs the port field")
	}
	url := fmt.Sprintf("mysql://%s:%s@%s", conn.User, conn.Password, hostPort(conn))
	if conn.Database != "" {
		url += "/" + conn.Database
	}
	return url, nil
}

func (d *MySQL) ListDatabases(conn Connection) ([]Database, error) {
	const op = "mysql: list databases"
	url, err := d.URL(conn)
	if err != nil {
		return nil, err
	}
	db, err := open(url, op, classifyMySQL)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var names []string
	if conn.Database != "" {
		names = []string{conn.Database}
	} else {
		rows, err := db.Query("SHOW DATABASES")
		if err != nil {
			return nil, classifyMySQL(op, err)
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return nil, wrapErr(ErrQuery, op, err)
			}
			names = append(names, name)
		}
		if err := rows.Err(); err != nil {
			return nil, wrapErr(ErrQuery, op, err)
		}
	}

	var out []Database
	for _, name := range names {
		if mysqlInternalSchemas[name] {
			continue
		}
		tables, err := d.listTables(db, name)
		if err != nil {
			return nil, err
		}
		out = append(out, Database{Name: name, Tables: tables})
	}
	logger.Debug("mysql: databases loaded", map[string]any{"count": len(out)})
	return out, nil
}

func (d *MySQL) listTables(db *sql.DB, database string) ([]Table, error) {
	const op = "mysql: list tables"
	query := `SELECT TABLE_NAME, COALESCE(ENGINE, '')
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME`
	rows, err := db.Query(query, database)
	if err != nil {
		return nil, classifyMySQL(op, err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Name, &t.Engine); err != nil {
			return nil, wrapErr(ErrQuery, op, err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}
	return tables, nil
}

func (d *MySQL) ListRecords(conn Connection, ref TableRef, page Page) (*Records, error) {
	const op = "mysql: list records"
	url, err := d.URL(conn)
	if err != nil {
		return nil, err
	}
	db, err := open(url, op, classifyMySQL)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	target := quoteMySQL(ref.Database) + "." + quoteMySQL(ref.Table)
	where := ""
	if strings.TrimSpace(page.Where) != "" {
		where = " WHERE " + page.Where
	}

	query := fmt.Sprintf("SELECT * FROM %s%s LIMIT ? OFFSET ?", target, where)
	logger.Debug("mysql: fetching records", map[string]any{
		"table":  ref.String(),
		"limit":  page.Limit,
		"offset": page.Offset,
		"where":  page.Where,
	})
	rows, err := db.Query(query, page.Limit, page.Offset)
	if err != nil {
		return nil, classifyMySQL(op, err)
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

func (d *MySQL) Describe(conn Connection, ref TableRef) (*TableProperties, error) {
	const op = "mysql: describe table"
	url, err := d.URL(conn)
	if err != nil {
		return nil, err
	}
	db, err := open(url, op, classifyMySQL)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE,
			COALESCE(COLUMN_DEFAULT, ''), COALESCE(COLUMN_KEY, ''), COALESCE(EXTRA, '')
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`
	rows, err := db.Query(query, ref.Database, ref.Table)
	if err != nil {
		return nil, classifyMySQL(op, err)
	}
	defer rows.Close()

	var props TableProperties
	for rows.Next() {
		var col ColumnInfo
		var nullable, key string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default, &key, &col.Extra); err != nil {
			return nil, wrapErr(ErrQuery, op, err)
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
		col.PrimaryKey = key == "PRI"
		props.Columns = append(props.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}
	if len(props.Columns) == 0 {
		return nil, &Error{Kind: ErrNotFound, Op: op + ": " + ref.String()}
	}
	return &props, nil
}

func (d *MySQL) ToolName() string { return "mycli" }

func (d *MySQL) ToolCommand(conn Connection) (*exec.Cmd, error) {
	bin, err := lookTool(d.ToolName())
	if err != nil {
		return nil, err
	}
	url, err := d.URL(conn)
	if err != nil {
		return nil, err
	}
	return exec.Command(bin, url), nil
}

func quoteMySQL(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}
