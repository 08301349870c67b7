package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"moviefav/httpserver"
	"moviefav/imdb"
	"moviefav/movie"
	"moviefav/pkg/config"
	"moviefav/pkg/console"
	"moviefav/pkg/metrics"
	"moviefav/pkg/sentry"
	"moviefav/store"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
)

const usage = "Usage: httpserver"

func main() {
	os.Exit(run(os.Args, os.Stdout))
}

// run starts the server and blocks until it stops. Any argument besides the
// program name is rejected before config is read or a port is bound.
func run(args []string, stdout io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stdout, usage)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid config", "error", err)
		fmt.Fprintln(stdout, usage)
		return 1
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		return 1
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	favorites, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("Cannot open favorites store", "driver", cfg.Store.Driver, "error", err)
		sentry.WithTags(map[string]string{"driver": cfg.Store.Driver}).Fatal(err)
		return 1
	}
	defer func() {
		if err := favorites.Close(context.Background()); err != nil {
			slog.Error("Cannot close favorites store", "error", err)
			sentry.Error(err)
		}
	}()

	collectors := metrics.NewCollectors(prometheus.DefaultRegisterer)
	searcher := imdb.NewClient(imdb.Options{
		URL:             cfg.Search.URL,
		APIKey:          cfg.Search.APIKey,
		APIHost:         cfg.Search.APIHost,
		RateLimit:       cfg.Search.RateLimit,
		Burst:           cfg.Search.RateBurst,
		BreakerFailures: cfg.Search.BreakerFailures,
		BreakerTimeout:  cfg.Search.BreakerTimeout,
	})

	server := httpserver.Default(cfg)
	server.MovieService = movie.NewUsecase(
		metrics.NewSearcher(searcher, collectors),
		metrics.NewRepository(favorites.Repository, collectors),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	slog.Info(fmt.Sprintf("Web server started and running at http://localhost%s", server.Addr),
		"driver", favorites.Driver)

	if cfg.ConsoleEnabled {
		go func() {
			err := console.Run(ctx, os.Stdin, stdout)
			if err == nil {
				slog.Info("stop command received")
				stop()
			}
		}()
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error", "error", err)
			sentry.Fatal(err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		sentry.Error(err)
		return 1
	}
	slog.Info("server stopped")
	return 0
}
