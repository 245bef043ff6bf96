package drivers

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSQLite(t *testing.T) Connection {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.db")
	db, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER)`)
	require.NoError(t, err)

	for _, row := range [][2]string{
		{"alice", "alice@example.com"},
		{"bob", "bob@example.com"},
		{"carol", "carol@example.com"},
		{"dave", "dave@example.com"},
		{"erin", "erin@example.com"},
	} {
		_, err = db.Exec(`INSERT INTO users (name, email) VALUES (?, ?)`, row[0], row[1])
		require.NoError(t, err)
	}
	return Connection{Name: "demo", Type: KindSQLite, Path: path}
}

func TestSQLiteListDatabases(t *testing.T) {
	conn := seedSQLite(t)
	d := &SQLite{}

	dbs, err := d.ListDatabases(conn)
	require.NoError(t, err)
	require.Len(t, dbs, 1)
	assert.Equal(t, "demo", dbs[0].Name)

	var names []string
	for _, tbl := range dbs[0].Tables {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"orders", "users"}, names)
}

func TestSQLiteListRecords(t *testing.T) {
	conn := seedSQLite(t)
	d := &SQLite{}
	ref := TableRef{Database: "demo", Table: "users"}

	recs, err := d.ListRecords(conn, ref, Page{Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email"}, recs.Columns)
	assert.Len(t, recs.Rows, 5)
	assert.Equal(t, 5, recs.Total)
	assert.Equal(t, "alice", recs.Rows[0][1])
	assert.Equal(t, "erin@example.com", recs.Rows[4][2])
}

func TestSQLitePagination(t *testing.T) {
	conn := seedSQLite(t)
	d := &SQLite{}
	ref := TableRef{Database: "demo", Table: "users"}

	full, err := d.ListRecords(conn, ref, Page{Limit: 10, Offset: 0})
	require.NoError(t, err)

	var paged [][]string
	seen := map[string]bool{}
	for offset := 0; offset < 5; offset += 2 {
		page, err := d.ListRecords(conn, ref, Page{Limit: 2, Offset: offset})
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		for _, row := range page.Rows {
			id := row[0]
			assert.False(t, seen[id], "row %s appeared in two pages", id)
			seen[id] = true
		}
		paged = append(paged, page.Rows...)
	}
	assert.Equal(t, full.Rows, paged)
}

func TestSQLiteListRecordsWhere(t *testing.T) {
	conn := seedSQLite(t)
	d := &SQLite{}
	ref := TableRef{Database: "demo", Table: "users"}

	recs, err := d.ListRecords(conn, ref, Page{Limit: 10, Where: "name LIKE 'a%'"})
	require.NoError(t, err)
	require.Len(t, recs.Rows, 1)
	assert.Equal(t, "alice", recs.Rows[0][1])
	assert.Equal(t, 1, recs.Total)
}

func TestSQLiteDescribe(t *testing.T) {
	conn := seedSQLite(t)
	d := &SQLite{}

	props, err := d.Describe(conn, TableRef{Database: "demo", Table: "users"})
	require.NoError(t, err)
	require.Len(t, props.Columns, 3)

	byName := map[string]ColumnInfo{}
	for _, col := range props.Columns {
		byName[col.Name] = col
	}
	assert.True(t, byName["id"].PrimaryKey)
	assert.False(t, byName["name"].Nullable)
	assert.True(t, byName["email"].Nullable)
	assert.Equal(t, "TEXT", byName["email"].DataType)
}

func TestSQLiteDescribeUnknownTable(t *testing.T) {
	conn := seedSQLite(t)
	d := &SQLite{}

	_, err := d.Describe(conn, TableRef{Database: "demo", Table: "nope"})
	require.Error(t, err)
	assert.Equal(t, ErrNotFound, KindOf(err))
}

func TestSQLiteMissingFile(t *testing.T) {
	d := &SQLite{}
	conn := Connection{Name: "gone", Type: KindSQLite, Path: filepath.Join(t.TempDir(), "gone.db")}

	_, err := d.ListDatabases(conn)
	require.Error(t, err)
	assert.Equal(t, ErrNotFound, KindOf(err))
}

func TestSQLiteMissingPath(t *testing.T) {
	d := &SQLite{}

	_, err := d.URL(Connection{Name: "bad", Type: KindSQLite})
	require.Error(t, err)
	assert.Equal(t, ErrConfig, KindOf(err))
}
