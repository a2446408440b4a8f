package main

import (
	"github.com/aretw0/sectionkit/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <scenario>",
	Short: "Replay a scenario in real time and serve the engine over HTTP",
	Long: `Starts an event loop, replays the scenario on wall-clock time and exposes the
engine's snapshot, sections, frames and an SSE stream, plus Prometheus metrics on /metrics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logLevel, _ := cmd.Flags().GetString("log-level")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		port, _ := cmd.Flags().GetString("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, cli.ServeOptions{
			Path:      args[0],
			Addr:      ":" + port,
			LogLevel:  logLevel,
			RedisAddr: redisAddr,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
