// Package dataset loads the role sheet from CSV, XLSX or a Postgres table
// and coerces it into typed roles.
package dataset

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/db"
	"github.com/sells-group/volunteer-match/internal/model"
)

// ErrDataQuality marks a role sheet that cannot be loaded as-is.
var ErrDataQuality = eris.New("dataset: data quality fault")

// Format names a role sheet encoding.
type Format string

// Supported formats.
const (
	FormatAuto     Format = "auto"
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatPostgres Format = "postgres"
)

// Formats lists the accepted values of dataset.format.
var Formats = []Format{FormatAuto, FormatCSV, FormatXLSX, FormatPostgres}

// DefaultTable is the Postgres table roles are read from and imported into.
const DefaultTable = "roles"

// Options locate a role sheet.
type Options struct {
	Path        string
	Format      Format
	Sheet       string
	Table       string
	DatabaseURL string
}

// DetectFormat resolves FormatAuto from the file extension.
func DetectFormat(opts Options) (Format, error) {
	if opts.Format != "" && opts.Format != FormatAuto {
		return opts.Format, nil
	}
	switch strings.ToLower(filepath.Ext(opts.Path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	if opts.Path == "" && opts.DatabaseURL != "" {
		return FormatPostgres, nil
	}
	return "", eris.Errorf("dataset: cannot detect format of %q", opts.Path)
}

// ReadRows reads the raw sheet described by opts. opts.Path must already be
// local; remote sources are downloaded by the caller.
func ReadRows(ctx context.Context, opts Options) ([]Row, error) {
	format, err := DetectFormat(opts)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		return ReadCSVFile(opts.Path)
	case FormatXLSX:
		return ReadXLSX(opts.Path, opts.Sheet)
	case FormatPostgres:
		if opts.DatabaseURL == "" {
			return nil, eris.New("dataset: postgres format needs a database url")
		}
		pool, err := db.Connect(ctx, opts.DatabaseURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "dataset: connect")
		}
		defer pool.Close()
		return ReadTable(ctx, pool, opts.Table)
	}
	return nil, eris.Errorf("dataset: unsupported format %q", format)
}

// Roles validates rows and coerces them in sheet order.
func Roles(rows []Row) ([]model.Role, error) {
	if len(rows) == 0 {
		return nil, eris.Wrap(ErrDataQuality, "dataset: no roles")
	}
	if faults := Check(rows); len(faults) > 0 {
		for _, f := range faults {
			zap.L().Warn("dataset: fault",
				zap.Int("line", f.Line),
				zap.String("role", f.Role),
				zap.String("column", f.Column),
				zap.String("value", f.Value),
			)
		}
		return nil, eris.Wrapf(ErrDataQuality, "%s (%d faults)", faults[0], len(faults))
	}

	roles := make([]model.Role, len(rows))
	for i, r := range rows {
		roles[i] = r.Role()
	}
	return roles, nil
}

// Load reads and coerces a role sheet.
func Load(ctx context.Context, opts Options) ([]model.Role, error) {
	rows, err := ReadRows(ctx, opts)
	if err != nil {
		return nil, err
	}
	roles, err := Roles(rows)
	if err != nil {
		return nil, err
	}
	zap.L().Info("dataset: loaded roles",
		zap.String("source", source(opts)),
		zap.Int("roles", len(roles)),
	)
	return roles, nil
}

func source(opts Options) string {
	if opts.Path != "" {
		return opts.Path
	}
	return "table " + opts.Table
}
