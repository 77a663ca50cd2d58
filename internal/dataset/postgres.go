package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/db"
)

// positionColumn keeps sheet order in a table, since rows have none.
const positionColumn = "position"

func tableName(table string) string {
	if table == "" {
		return DefaultTable
	}
	return table
}

// SelectSQL returns the query ReadTable runs against table.
func SelectSQL(table string) string {
	exprs := make([]string, len(Columns))
	for i, c := range Columns {
		exprs[i] = fmt.Sprintf("COALESCE(%s::text, '')", pgx.Identifier{c}.Sanitize())
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(exprs, ", "),
		db.Identifier(tableName(table)).Sanitize(),
		pgx.Identifier{positionColumn}.Sanitize(),
	)
}

// ReadTable reads the role sheet stored in a Postgres table, in position
// order. Every column is read as text and coerced like a CSV cell.
func ReadTable(ctx context.Context, pool db.Pool, table string) ([]Row, error) {
	table = tableName(table)
	rs, err := pool.Query(ctx, SelectSQL(table))
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: query %s", table)
	}
	defer rs.Close()

	records := [][]string{append([]string(nil), Columns...)}
	for rs.Next() {
		rec := make([]string, len(Columns))
		dest := make([]any, len(rec))
		for i := range rec {
			dest[i] = &rec[i]
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, eris.Wrapf(err, "dataset: scan %s", table)
		}
		records = append(records, rec)
	}
	if err := rs.Err(); err != nil {
		return nil, eris.Wrapf(err, "dataset: iterate %s", table)
	}

	return decodeRows(&sliceSource{rows: records})
}

// CreateTableSQL returns the DDL for a roles table.
func CreateTableSQL(table string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", db.Identifier(tableName(table)).Sanitize())
	fmt.Fprintf(&b, "\t%s SERIAL,\n", pgx.Identifier{positionColumn}.Sanitize())
	for i, c := range Columns {
		fmt.Fprintf(&b, "\t%s TEXT", pgx.Identifier{c}.Sanitize())
		if i == 0 {
			b.WriteString(" PRIMARY KEY")
		}
		if i < len(Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// ImportMode selects how Import treats existing rows.
type ImportMode string

// Import modes.
const (
	// ImportUpsert replaces roles with the same name and keeps the rest.
	ImportUpsert ImportMode = "upsert"
	// ImportAppend copies rows in; a duplicate name fails the import.
	ImportAppend ImportMode = "append"
)

// Import writes rows into table, creating it if needed. Rows must already
// pass Check.
func Import(ctx context.Context, pool db.Pool, table string, rows []Row, mode ImportMode) (int64, error) {
	table = tableName(table)
	if _, err := pool.Exec(ctx, CreateTableSQL(table)); err != nil {
		return 0, eris.Wrapf(err, "dataset: create %s", table)
	}

	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = r.Values()
	}

	var (
		n   int64
		err error
	)
	switch mode {
	case ImportAppend:
		n, err = db.CopyFrom(ctx, pool, table, Columns, values)
	case ImportUpsert, "":
		n, err = db.BulkUpsert(ctx, pool, db.UpsertConfig{
			Table:        table,
			Columns:      Columns,
			ConflictKeys: []string{"role_name"},
		}, values)
	default:
		return 0, eris.Errorf("dataset: unknown import mode %q", mode)
	}
	if err != nil {
		return 0, eris.Wrapf(err, "dataset: import into %s", table)
	}

	zap.L().Info("dataset: imported roles",
		zap.String("table", table),
		zap.String("mode", string(mode)),
		zap.Int64("rows", n),
	)
	return n, nil
}
