package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/sectionkit"
	"github.com/aretw0/sectionkit/internal/presentation/tui"
	"github.com/aretw0/sectionkit/internal/script"
	"github.com/aretw0/sectionkit/pkg/adapters/headless"
	"github.com/aretw0/sectionkit/pkg/domain"
)

// ReplayOptions configures a scenario replay.
type ReplayOptions struct {
	Path     string
	LogLevel string
	// Plain disables colours and rich markdown.
	Plain bool
	// JSON prints one frame per line followed by the final snapshot.
	JSON bool
	// Width wraps the final markdown. Zero keeps glamour's default.
	Width int
	// RedisAddr shares impressions through Redis instead of memory.
	RedisAddr string
	Quiet     bool
	Out       io.Writer
}

// jsonSummary is the last line printed in JSON mode.
type jsonSummary struct {
	Final       domain.SnapshotView      `json:"final"`
	Impressions []domain.ImpressionEvent `json:"impressions"`
	Completions int                      `json:"completions"`
}

// Replay runs a scenario on virtual time and prints every frame the
// headless surface received.
func Replay(ctx context.Context, opts ReplayOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	sc, err := script.Load(opts.Path)
	if err != nil {
		return err
	}

	runnerOpts := []script.RunnerOption{
		script.WithLogger(logger),
		script.WithHooks(createDebugHooks(logger)),
	}
	store, err := newImpressionStore(ctx, opts.RedisAddr, listName(sc), logger)
	if err != nil {
		return err
	}
	if store != nil {
		runnerOpts = append(runnerOpts, script.WithImpressionStore(store))
	}

	var printer *tui.Printer
	var enc *json.Encoder
	if opts.JSON {
		enc = json.NewEncoder(out)
		runnerOpts = append(runnerOpts, script.OnFrame(func(f headless.Frame) {
			if err := enc.Encode(f); err != nil {
				logger.Error("failed to encode frame", "err", err)
			}
		}))
	} else {
		printer = tui.NewPrinter(out, colorProfile(out, opts.Plain))
		if !opts.Quiet {
			printer.Banner(sectionkit.Version)
		}
		runnerOpts = append(runnerOpts, script.OnFrame(printer.Frame))
	}

	res, err := script.NewRunner(runnerOpts...).Run(ctx, sc)
	if err != nil {
		return handleExecutionError(err)
	}

	if enc != nil {
		return enc.Encode(jsonSummary{
			Final:       res.Final,
			Impressions: res.Impressions,
			Completions: res.Completions,
		})
	}

	for _, imp := range res.Impressions {
		fmt.Fprintf(out, "impression %s/%s\n", imp.Section, imp.Item)
	}
	render, err := tui.NewRenderer(!opts.Plain && isTerminal(out), opts.Width)
	if err != nil {
		return err
	}
	doc, err := render(tui.SnapshotMarkdown(title(sc), res.Final))
	if err != nil {
		return fmt.Errorf("failed to render snapshot: %w", err)
	}
	_, err = io.WriteString(out, doc)
	return err
}

func listName(sc *script.Scenario) string {
	if sc.Engine.Name != "" {
		return sc.Engine.Name
	}
	return "default"
}

func title(sc *script.Scenario) string {
	if sc.Name != "" {
		return sc.Name
	}
	return "snapshot"
}
