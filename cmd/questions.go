package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/volunteer-match/internal/catalog"
	"github.com/sells-group/volunteer-match/internal/config"
	"github.com/sells-group/volunteer-match/pkg/notion"
)

var questionsFormat string

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the configured question catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeRoles); err != nil {
			return err
		}
		var nc notion.Client
		if cfg.Notion.Token != "" {
			nc = notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit))
		}
		qs, err := loadQuestions(cmd.Context(), cfg, newResolver(cfg), nc)
		if err != nil {
			return err
		}
		c, err := catalog.New(qs)
		if err != nil {
			return err
		}
		return writeQuestions(cmd.OutOrStdout(), questionsFormat, c)
	},
}

func init() {
	questionsCmd.Flags().StringVar(&questionsFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(questionsCmd)
}

func writeQuestions(out io.Writer, format string, c *catalog.Catalog) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(c.Questions())
	case "table":
	default:
		return eris.Errorf("questions: unknown format %q (table or json)", format)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKEY\tTYPE\tRULE\tOPTIONS")
	_, _ = fmt.Fprintln(w, "--\t---\t----\t----\t-------")
	for i := 0; i < c.Len(); i++ {
		q, err := c.Get(i)
		if err != nil {
			return err
		}
		opts, err := c.Options(i)
		if err != nil {
			return err
		}
		values := make([]string, len(opts))
		for j, o := range opts {
			values[j] = o.Value
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", q.ID, q.Key, q.Type, q.Rule, dash(strings.Join(values, ", ")))
	}
	return w.Flush()
}
