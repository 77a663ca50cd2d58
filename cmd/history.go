package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/volunteer-match/internal/store"
)

var (
	historySession string
	historyKind    string
	historyLimit   int
	historyFormat  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded answers and results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		kind := store.Kind(historyKind)
		if kind != "" && kind != store.KindAnswer && kind != store.KindResult {
			return eris.Errorf("history: unknown kind %q (answer or result)", historyKind)
		}

		st, err := store.Open(ctx, strings.ToLower(cfg.Store.Driver), cfg.Store.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer st.Close() //nolint:errcheck

		entries, err := st.ListHistory(ctx, store.HistoryFilter{
			SessionID: historySession,
			Kind:      kind,
			Limit:     historyLimit,
		})
		if err != nil {
			return err
		}
		return writeHistory(cmd.OutOrStdout(), historyFormat, entries)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historySession, "session", "", "only this session")
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "answer or result")
	historyCmd.Flags().IntVar(&historyLimit, "limit", store.DefaultLimit, "max entries")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(historyCmd)
}

func writeHistory(out io.Writer, format string, entries []store.Entry) error {
	switch format {
	case "json":
		if entries == nil {
			entries = []store.Entry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "table":
	default:
		return eris.Errorf("history: unknown format %q (table or json)", format)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No history found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CREATED\tSESSION\tKIND\tQUESTION\tPAYLOAD")
	_, _ = fmt.Fprintln(w, "-------\t-------\t----\t--------\t-------")
	for _, e := range entries {
		q := "-"
		if e.QuestionID != store.NoQuestion {
			q = fmt.Sprintf("%d", e.QuestionID)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format(time.RFC3339), e.SessionID, e.Kind, q, string(e.Payload))
	}
	return w.Flush()
}
