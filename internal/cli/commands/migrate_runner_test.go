package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigrationPair(t *testing.T, dir, base, upSQL, downSQL string) string {
	t.Helper()

	upFile := filepath.Join(dir, base+".up.sql")
	require.NoError(t, os.WriteFile(upFile, []byte(upSQL), 0644))

	if downSQL != "" {
		downFile := filepath.Join(dir, base+".down.sql")
		require.NoError(t, os.WriteFile(downFile, []byte(downSQL), 0644))
	}

	return upFile
}

func TestCreateMigrationsTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS blueprint_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, createMigrationsTable(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAppliedMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT version FROM blueprint_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).
			AddRow(int64(1)).
			AddRow(int64(2)))

	applied, err := getAppliedMigrations(db)
	require.NoError(t, err)
	assert.Len(t, applied, 2)
	assert.True(t, applied[1])
	assert.True(t, applied[2])
	assert.False(t, applied[3])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAppliedMigrationsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT version FROM blueprint_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	applied, err := getAppliedMigrations(db)
	require.NoError(t, err)
	assert.Empty(t, applied)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrationFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	upSQL := "CREATE TABLE blogs (id BIGINT PRIMARY KEY);"
	downSQL := "DROP TABLE blogs;"
	file := writeMigrationPair(t, t.TempDir(), "001_init", upSQL, downSQL)

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE blogs").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO blueprint_migrations").
		WithArgs(int64(1), "init", upSQL, downSQL).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = applyMigrationFile(db, file, 1, "init", false)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrationFileWithoutDownFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	upSQL := "CREATE TABLE tags (id BIGINT PRIMARY KEY);"
	file := writeMigrationPair(t, t.TempDir(), "002_add_tags", upSQL, "")

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE tags").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Down SQL is recorded as an empty string when no down file exists
	mock.ExpectExec("INSERT INTO blueprint_migrations").
		WithArgs(int64(2), "add_tags", upSQL, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = applyMigrationFile(db, file, 2, "add_tags", false)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrationFileExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	upSQL := "CREATE TABLE blogs (id BIGINT PRIMARY KEY);"
	file := writeMigrationPair(t, t.TempDir(), "001_init", upSQL, "")

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE blogs").
		WillReturnError(fmt.Errorf("syntax error at or near \"BIGINT\""))
	mock.ExpectRollback()

	err = applyMigrationFile(db, file, 1, "init", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SQL syntax error")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrationFileExecErrorVerbose(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	upSQL := "CREATE TABLE blogs (id BIGINT PRIMARY KEY);"
	file := writeMigrationPair(t, t.TempDir(), "001_init", upSQL, "")

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE blogs").
		WillReturnError(fmt.Errorf("syntax error at or near \"BIGINT\""))
	mock.ExpectRollback()

	err = applyMigrationFile(db, file, 1, "init", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error at or near")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrationFileDangerousSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	file := writeMigrationPair(t, t.TempDir(), "001_wipe", "DROP DATABASE production;", "")

	// Validation fails before any database calls
	err = applyMigrationFile(db, file, 1, "wipe", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dangerous operation")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrationFileMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	file := filepath.Join(t.TempDir(), "001_missing.up.sql")

	err = applyMigrationFile(db, file, 1, "missing", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read migration")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackLastMigration(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT version, name, down_sql").
		WillReturnRows(sqlmock.NewRows([]string{"version", "name", "down_sql"}).
			AddRow(int64(2), "add_tags", "DROP TABLE tags;"))
	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE tags").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM blueprint_migrations").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	name, version, err := rollbackLastMigration(db, false)
	require.NoError(t, err)
	assert.Equal(t, "add_tags", name)
	assert.Equal(t, int64(2), version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackLastMigrationNoMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT version, name, down_sql").
		WillReturnError(sql.ErrNoRows)

	_, _, err = rollbackLastMigration(db, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackLastMigrationMissingDownSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT version, name, down_sql").
		WillReturnRows(sqlmock.NewRows([]string{"version", "name", "down_sql"}).
			AddRow(int64(3), "no_rollback", nil))

	_, _, err = rollbackLastMigration(db, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rollback SQL")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackLastMigrationExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT version, name, down_sql").
		WillReturnRows(sqlmock.NewRows([]string{"version", "name", "down_sql"}).
			AddRow(int64(2), "add_tags", "DROP TABLE tags;"))
	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE tags").
		WillReturnError(fmt.Errorf("relation \"tags\" does not exist"))
	mock.ExpectRollback()

	_, _, err = rollbackLastMigration(db, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollback failed")
	assert.Contains(t, err.Error(), "does not exist")

	assert.NoError(t, mock.ExpectationsWereMet())
}
