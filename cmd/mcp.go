package main

import (
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/config"
	"github.com/sells-group/volunteer-match/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the questionnaire as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initApp(ctx, config.ModeAssess)
		if err != nil {
			return err
		}
		defer env.Close()

		server := mcptools.NewServer(env.Sessions, version)
		zap.L().Info("mcp server on stdio")
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			return eris.Wrap(err, "mcp server")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
