package cli

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/sectionkit"
	"github.com/aretw0/sectionkit/internal/script"
	"github.com/aretw0/sectionkit/pkg/adapters/headless"
	httpAdapter "github.com/aretw0/sectionkit/pkg/adapters/http"
	"github.com/aretw0/sectionkit/pkg/observability"
	"github.com/aretw0/sectionkit/pkg/scheduler"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures the inspection server.
type ServeOptions struct {
	Path      string
	Addr      string
	LogLevel  string
	RedisAddr string
	// Listener overrides Addr, mostly for tests.
	Listener net.Listener
	// Ready is called with the bound address once the server accepts
	// connections.
	Ready func(addr string)
}

// Serve replays a scenario in real time on an event loop and exposes the
// engine over HTTP until ctx is cancelled. Prometheus metrics are served on
// /metrics.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return err
	}
	sc, err := script.Load(opts.Path)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := observability.New(reg)

	loop := scheduler.NewLoop(0)
	handlers := make(chan http.Handler, 1)

	runnerOpts := []script.RunnerOption{
		script.WithLogger(logger),
		script.WithClock(script.WallClock{Scheduler: loop}),
		script.WithHooks(observability.Chain(metrics.Hooks(), createDebugHooks(logger))),
		script.OnReady(func(engine *sectionkit.Engine, surface *headless.Surface) {
			handlers <- newRouter(engine, surface, reg, logger)
		}),
	}
	store, err := newImpressionStore(ctx, opts.RedisAddr, listName(sc), logger)
	if err != nil {
		return err
	}
	if store != nil {
		runnerOpts = append(runnerOpts, script.WithImpressionStore(store))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		res, err := script.NewRunner(runnerOpts...).Run(gctx, sc)
		if err != nil {
			return err
		}
		logger.Info("Scenario settled", "name", sc.Name, "frames", len(res.Frames), "impressions", len(res.Impressions))
		return nil
	})

	var handler http.Handler
	select {
	case handler = <-handlers:
	case <-gctx.Done():
		return handleExecutionError(g.Wait())
	}

	ln := opts.Listener
	if ln == nil {
		ln, err = net.Listen("tcp", opts.Addr)
		if err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Starting sectionkit server", "addr", ln.Addr().String())
		if opts.Ready != nil {
			opts.Ready(ln.Addr().String())
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("Server stopped gracefully")
		return nil
	})

	return handleExecutionError(g.Wait())
}

func newRouter(engine *sectionkit.Engine, surface *headless.Surface, reg *prometheus.Registry, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", httpAdapter.NewHandler(engine,
		httpAdapter.WithFrames(surface),
		httpAdapter.WithLogger(logger),
	))
	return r
}
