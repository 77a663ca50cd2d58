package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/config"
	"github.com/sells-group/volunteer-match/internal/dataset"
	"github.com/sells-group/volunteer-match/internal/db"
	"github.com/sells-group/volunteer-match/internal/model"
)

var (
	rolesWhere  string
	rolesFormat string

	importMode        string
	importTable       string
	importDatabaseURL string
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Inspect and import the role sheet",
}

var rolesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles in sheet order",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeRoles); err != nil {
			return err
		}
		roles, err := loadRoles(cmd.Context(), cfg, newResolver(cfg))
		if err != nil {
			return err
		}
		if rolesWhere != "" {
			if roles, err = dataset.Filter(roles, rolesWhere); err != nil {
				return eris.Wrapf(err, "known attributes: %s", strings.Join(dataset.Attributes(), ", "))
			}
		}
		return writeRoles(cmd.OutOrStdout(), rolesFormat, roles)
	},
}

var rolesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report data quality faults in the role sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeRoles); err != nil {
			return err
		}
		rows, err := readRows(cmd.Context(), cfg, newResolver(cfg))
		if err != nil {
			return err
		}
		faults := dataset.Check(rows)
		writeFaults(cmd.OutOrStdout(), len(rows), faults)
		if len(faults) > 0 {
			return eris.Wrapf(dataset.ErrDataQuality, "%d faults", len(faults))
		}
		return nil
	},
}

var rolesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the role sheet into a Postgres table",
	Long:  "Reads the configured CSV or XLSX role sheet and writes it to a Postgres table that serve can then read with dataset.format=postgres.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mode := dataset.ImportMode(importMode)
		if mode != dataset.ImportUpsert && mode != dataset.ImportAppend {
			return eris.Errorf("roles import: unknown mode %q (upsert or append)", importMode)
		}
		url := importDatabaseURL
		if url == "" {
			url = cfg.Dataset.DatabaseURL
		}
		if url == "" {
			return eris.New("roles import: --database-url or dataset.database_url is required")
		}
		table := importTable
		if table == "" {
			table = cfg.Dataset.Table
		}
		if strings.EqualFold(cfg.Dataset.Format, string(dataset.FormatPostgres)) {
			return eris.New("roles import: dataset.format must name a file, not postgres")
		}

		rows, err := readRows(ctx, cfg, newResolver(cfg))
		if err != nil {
			return err
		}
		if _, err := dataset.Roles(rows); err != nil {
			return err
		}

		pool, err := db.Connect(ctx, url, nil)
		if err != nil {
			return eris.Wrap(err, "roles import: connect")
		}
		defer pool.Close()

		n, err := dataset.Import(ctx, pool, table, rows, mode)
		if err != nil {
			return err
		}
		zap.L().Info("roles imported", zap.String("table", table), zap.Int64("rows", n))
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d roles into %s\n", n, table)
		return nil
	},
}

func init() {
	rolesListCmd.Flags().StringVar(&rolesWhere, "where", "", "keep roles where this attribute is truthy (e.g. age_exception_allowed)")
	rolesListCmd.Flags().StringVar(&rolesFormat, "format", "table", "output format: table or json")

	rolesImportCmd.Flags().StringVar(&importMode, "mode", string(dataset.ImportUpsert), "upsert or append")
	rolesImportCmd.Flags().StringVar(&importTable, "table", "", "target table (default from config)")
	rolesImportCmd.Flags().StringVar(&importDatabaseURL, "database-url", "", "target database (default dataset.database_url)")

	rolesCmd.AddCommand(rolesListCmd, rolesValidateCmd, rolesImportCmd)
	rootCmd.AddCommand(rolesCmd)
}

func writeRoles(out io.Writer, format string, roles []model.Role) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(roles)
	case "table":
	default:
		return eris.Errorf("roles: unknown format %q (table or json)", format)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ROLE\tAGE_MIN\tWORK_PREF\tLEADERSHIP\tAGE_EXCEPTION")
	_, _ = fmt.Fprintln(w, "----\t-------\t---------\t----------\t-------------")
	for _, r := range roles {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\n",
			r.Name, dash(r.AgeMin.Raw), dash(string(r.WorkPref)), r.LeadershipPref, r.AgeExceptionAllowed)
	}
	return w.Flush()
}

func writeFaults(out io.Writer, rows int, faults []dataset.Fault) {
	if len(faults) == 0 {
		_, _ = fmt.Fprintf(out, "%d roles, no faults\n", rows)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LINE\tROLE\tCOLUMN\tVALUE\tREASON")
	for _, f := range faults {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", f.Line, dash(f.Role), f.Column, dash(f.Value), f.Reason)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "%d roles, %d faults\n", rows, len(faults))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
