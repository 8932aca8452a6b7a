package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/gatogato999/ordstore/internal/buildinfo"
	"github.com/gatogato999/ordstore/internal/config"
	"github.com/gatogato999/ordstore/internal/logging"
	"github.com/gatogato999/ordstore/internal/mutate"
	"github.com/gatogato999/ordstore/internal/query"
	"github.com/gatogato999/ordstore/internal/server"
	"github.com/gatogato999/ordstore/internal/setup"
	"github.com/gatogato999/ordstore/internal/shutdown"
	"github.com/gatogato999/ordstore/internal/stats"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	if err := run(ctx, done); err != nil {
		logger.Fatal(err)
	}

	defer done()
}

func run(ctx context.Context, cancel func()) error {
	cfg := config.Config{}
	env, err := setup.Setup(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer env.Close(context.Background())

	shutdownCh := make(chan error, 2)
	notifier, err := env.ProvideNotifier()(shutdownCh)
	if err != nil {
		return fmt.Errorf("notifier provider function error: %w", err)
	}
	if err := notifier.Run(ctx); err != nil {
		return fmt.Errorf("notifier.Run: %w", err)
	}

	st, err := env.ProvideStore()(notifier, shutdownCh)
	if err != nil {
		return fmt.Errorf("store provider function error: %w", err)
	}
	if err := st.Run(ctx); err != nil {
		return fmt.Errorf("store.Run: %w", err)
	}

	srv, err := server.New(cfg.SrvAddr)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	exporter, err := stats.NewExporter()
	if err != nil {
		return fmt.Errorf("stats.NewExporter: %w", err)
	}

	setHandler, err := mutate.NewSetHandler(&cfg.Mutate, st)
	if err != nil {
		return fmt.Errorf("mutate.NewSetHandler: %w", err)
	}
	deleteHandler, err := mutate.NewDeleteHandler(&cfg.Mutate, st)
	if err != nil {
		return fmt.Errorf("mutate.NewDeleteHandler: %w", err)
	}
	keyspaceHandler, err := mutate.NewKeyspaceHandler(&cfg.Mutate, st)
	if err != nil {
		return fmt.Errorf("mutate.NewKeyspaceHandler: %w", err)
	}
	getHandler, err := query.NewGetHandler(&cfg.Query, st)
	if err != nil {
		return fmt.Errorf("query.NewGetHandler: %w", err)
	}
	scanHandler, err := query.NewScanHandler(&cfg.Query, st)
	if err != nil {
		return fmt.Errorf("query.NewScanHandler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/set", setHandler)
	mux.Handle("/delete", deleteHandler)
	mux.Handle("/keyspace", keyspaceHandler)
	mux.Handle("/get", getHandler)
	mux.Handle("/scan", scanHandler)
	mux.Handle("/health", server.HandleHealth(st))
	mux.Handle("/metrics", exporter)
	mux.Handle("/debug/tree", server.HandleDebugTree(st, st))

	go func() {
		if err := srv.ServeHTTPHandler(ctx, mux); err != nil {
			cancel()
		}
	}()

	go func() {
		if err := http.ListenAndServe(cfg.DebugAddr, nil); err != nil {
			cancel()
		}
	}()

	return <-shutdownCh
}
