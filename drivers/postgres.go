package drivers

import (
	"fmt"
	"os/exec"
	"strings"

	_ "github.com/lib/pq"

	"github.com/dbnav/dbnav/logger"
)

// Postgres adapts the contract to a PostgreSQL server via lib/pq. A
// postgres connection sees a single database, so the tree shows that
// database with its tables grouped by schema.
type Postgres struct{}

func (d *Postgres) URL(conn Connection) (string, error) {
	if err := requireFields(conn, map[string]string{
		"user": conn.User,
		"host": conn.Host,
	}); err != nil {
		return "", err
	}
	if conn.Port == 0 {
		return "", configErrf("type postgres needs the port field")
	}
	url := fmt.Sprintf("postgres://%s:%s@%s", conn.User, conn.Password, hostPort(conn))
	if conn.Database != "" {
		url += "/" + conn.Database
	}
	return url + "?sslmode=disable", nil
}

func (d *Postgres) ListDatabases(conn Connection) ([]Database, error) {
	const op = "postgres: list databases"
	url, err := d.URL(conn)
	if err != nil {
		return nil, err
	}
	db, err := open(url, op, classifyPostgres)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY table_schema, table_name`)
	if err != nil {
		return nil, classifyPostgres(op, err)
	}
	defer rows.Close()

	var schemas []Schema
	for rows.Next() {
		var schema, table string
		if err := rows.Scan(&schema, &table); err != nil {
			return nil, wrapErr(ErrQuery, op, err)
		}
		if len(schemas) == 0 || schemas[len(schemas)-1].Name != schema {
			schemas = append(schemas, Schema{Name: schema})
		}
		last := &schemas[len(schemas)-1]
		last.Tables = append(last.Tables, Table{Name: table, Schema: schema})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}

	dbname := conn.Database
	if dbname == "" {
		dbname = "postgres"
	}
	logger.Debug("postgres: databases loaded", map[string]any{
		"database": dbname,
		"schemas":  len(schemas),
	})
	return []Database{{Name: dbname, Schemas: schemas}}, nil
}

func (d *Postgres) ListRecords(conn Connection, ref TableRef, page Page) (*Records, error) {
	const op = "postgres: list records"
	url, err := d.URL(conn)
	if err != nil {
		return nil, err
	}
	db, err := open(url, op, classifyPostgres)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	schema := ref.Schema
	if schema == "" {
		schema = "public"
	}
	target := quotePostgres(schema) + "." + quotePostgres(ref.Table)

	// Column order first, so every cell can be cast to text for stable
	// string output regardless of the column's type.
	colRows, err := db.Query(`SELECT column_name FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, ref.Table)
	if err != nil {
		return nil, classifyPostgres(op, err)
	}
	var columns []string
	for colRows.Next() {
		var name string
		if err := colRows.Scan(&name); err != nil {
			colRows.Close()
			return nil, wrapErr(ErrQuery, op, err)
		}
		columns = append(columns, name)
	}
	colRows.Close()
	if err := colRows.Err(); err != nil {
		return nil, wrapErr(ErrQuery, op, err)
	}
	if len(columns) == 0 {
		return nil, &Error{Kind: ErrNotFound, Op: op + ": " + ref.String()}
	}

	selects := make([]string, len(columns))
	for i, c := range columns {
		selects[i] = quotePostgres(c) + "::text"
	}
	where := ""
	if strings.TrimSpace(page.Where) != "" {
		where = " WHERE " + page.Where
	}
	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT $1 OFFSET $2",
		strings.Join(selects, ", "), target, where)
	logger.Debug("postgres: fetching records", map[string]any{
		"table":  ref.String(),
		"limit":  page.Limit,
		"offset": page.Offset,
		"where":  page.Where,
	})
	rows, err := db.Query(query, page.Limit, page.Offset)
	if err != nil {
		return nil, classifyPostgres(op, err)
	}
	defer rows.Close()

	var data [][]string
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, wrapErr(ErrQuery, op, err)
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

func (d *Postgres) Describe(conn Connection, ref TableRef) (*TableProperties, error) {
	const op = "postgres: describe table"
	url, err := d.URL(conn)
	if err != nil {
		return nil, err
	}
	db, err := open(url, op, classifyPostgres)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	schema := ref.Schema
	if schema == "" {
		schema = "public"
	}
	query := `SELECT c.column_name, c.data_type, c.is_nullable,
			COALESCE(c.column_default, ''),
			EXISTS (
				SELECT 1 FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON tc.constraint_name = kcu.constraint_name
					AND tc.table_schema = kcu.table_schema
				WHERE tc.constraint_type = 'PRIMARY KEY'
					AND tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND kcu.column_name = c.column_name
			)
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position`
	rows, err := db.Query(query, schema, ref.Table)
	if err != nil {
		return nil, classifyPostgres(op, err)
	}
	defer rows.Close()

	var props TableProperties
	for rows.Next() {
		var col ColumnInfo
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default, &col.PrimaryKey); err != nil {
			return nil, wrapErr(ErrQuery, op, err)
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
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

func (d *Postgres) ToolName() string { return "pgcli" }

func (d *Postgres) ToolCommand(conn Connection) (*exec.Cmd, error) {
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

func quotePostgres(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
