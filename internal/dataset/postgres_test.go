package dataset

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(cells ...string) []any {
	out := make([]any, len(Columns))
	for i := range out {
		out[i] = ""
		if i < len(cells) {
			out[i] = cells[i]
		}
	}
	return out
}

func TestSelectSQL(t *testing.T) {
	q := SelectSQL("events.roles")
	assert.Contains(t, q, `COALESCE("role_name"::text, '')`)
	assert.Contains(t, q, `FROM "events"."roles" ORDER BY "position"`)
	assert.Contains(t, SelectSQL(""), `FROM "roles"`)
}

func TestReadTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(SelectSQL("roles"))).
		WillReturnRows(pgxmock.NewRows(Columns).
			AddRow(record("Referee", "18", "", "Must stand", "3", "FRONT", "false")...).
			AddRow(record("Scorekeeper", "16", "", "false", "2", "BTS", "true")...))

	rows, err := ReadTable(context.Background(), mock, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Referee", rows[0].RoleName)
	assert.Equal(t, "Must stand", rows[0].PhysicalReq)
	assert.Equal(t, "true", rows[1].LeadershipPref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadTable_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").WillReturnError(fmt.Errorf("relation does not exist"))

	_, err = ReadTable(context.Background(), mock, "roles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query roles")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTableSQL(t *testing.T) {
	ddl := CreateTableSQL("roles")
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "roles"`)
	assert.Contains(t, ddl, `"position" SERIAL`)
	assert.Contains(t, ddl, `"role_name" TEXT PRIMARY KEY,`)
	assert.Contains(t, ddl, `"age_exception_allowed" TEXT`+"\n)")
}

func TestImport_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"roles"}, Columns).WillReturnResult(2)

	rows := []Row{{RoleName: "Referee"}, {RoleName: "Scorekeeper"}}
	n, err := Import(context.Background(), mock, "roles", rows, ImportAppend)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImport_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TEMP TABLE").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_roles"}, Columns).WillReturnResult(1)
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT ("role_name") DO UPDATE`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	n, err := Import(context.Background(), mock, "", []Row{{RoleName: "Referee", AgeMin: "18"}}, ImportUpsert)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImport_CreateFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnError(fmt.Errorf("permission denied"))

	_, err = Import(context.Background(), mock, "roles", []Row{{RoleName: "Referee"}}, ImportAppend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create roles")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImport_UnknownMode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	_, err = Import(context.Background(), mock, "roles", []Row{{RoleName: "Referee"}}, "replace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown import mode")
}
