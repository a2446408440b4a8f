package main

import (
	"github.com/aretw0/sectionkit/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario>",
	Short: "Replay a scenario on virtual time",
	Long: `Replays a YAML or JSON scenario against a headless surface and prints the
changeset of every applied snapshot, followed by the final list as markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logLevel, _ := cmd.Flags().GetString("log-level")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		plain, _ := cmd.Flags().GetBool("plain")
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		width, _ := cmd.Flags().GetInt("width")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Replay(ctx, cli.ReplayOptions{
			Path:      args[0],
			LogLevel:  logLevel,
			Plain:     plain,
			JSON:      jsonMode,
			Width:     width,
			RedisAddr: redisAddr,
			Quiet:     quiet,
			Out:       cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("plain", false, "Disable colours and rich markdown")
	replayCmd.Flags().Bool("json", false, "Print frames as JSON lines")
	replayCmd.Flags().BoolP("quiet", "q", false, "Skip the banner")
	replayCmd.Flags().Int("width", 0, "Wrap the final snapshot at this width")
}
