package migrations

import (
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrationsOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/V10__later.sql":   {Data: []byte("SELECT 10;")},
		"sql/V2__second.sql":   {Data: []byte("SELECT 2;")},
		"sql/adhoc.sql":        {Data: []byte("SELECT 0;")},
		"sql/V1__first.sql":    {Data: []byte("SELECT 1;")},
		"sql/README.md":        {Data: []byte("ignored")},
		"sql/nested/V3__x.sql": {Data: []byte("SELECT 3;")},
	}
	migs, err := listMigrations(fsys, "sql")
	require.NoError(t, err)

	names := make([]string, 0, len(migs))
	for _, m := range migs {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"V1__first.sql", "V2__second.sql", "V10__later.sql", "adhoc.sql"}, names)
	assert.Equal(t, "SELECT 1;", migs[0].SQL)
}

func TestParseVersion(t *testing.T) {
	assert.Equal(t, "1", parseVersion("V1__sheet_rows.sql"))
	assert.Equal(t, "", parseVersion("V1.sql"))
	assert.Equal(t, "", parseVersion("sheet_rows.sql"))

	_, ok := parseVersionNumber("Vx__bad.sql")
	assert.False(t, ok)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	migs, err := listMigrations(embedded, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, "V1__sheet_rows.sql", migs[0].Name)
	assert.Contains(t, migs[0].SQL, "sheet_rows")
}

func TestApplySkipsRecordedMigrations(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	fsys := fstest.MapFS{
		"sql/V1__first.sql":  {Data: []byte("CREATE TABLE a (id INT);")},
		"sql/V2__second.sql": {Data: []byte("CREATE TABLE b (id INT);")},
	}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("V1__first.sql"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INT);")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (name, version)")).
		WithArgs("V2__second.sql", "2").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, apply(db, fsys, "sql"))
	require.NoError(t, mock.ExpectationsWereMet())
}
