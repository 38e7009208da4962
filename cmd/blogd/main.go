package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-blog/cmd/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.LookupEnv, nil); err != nil {
		log.Fatalf("blogd: %v", err)
	}
}

// run serves the blog API until ctx is cancelled. When ready is non-nil it
// receives the bound listener address once the server accepts connections.
func run(ctx context.Context, args []string, lookup bootstrap.LookupFunc, ready chan<- string) error {
	cfg, err := bootstrap.ConfigFromEnv(lookup)
	if err != nil {
		return err
	}

	flags := flag.NewFlagSet("blogd", flag.ContinueOnError)
	var (
		addr       = flags.String("addr", cfg.HTTP.Addr, "Address the API listens on")
		contentDir = flags.String("content-dir", "", "Directory of Markdown posts (overrides BLOG_CONTENT_DIR)")
		seed       = flags.Bool("seed", cfg.Storage.Seed, "Seed an empty posts table from the file-backed sources")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	cfg.HTTP.Addr = *addr

	module, err := moduleBuilder(cfg, bootstrap.Options{ContentDir: *contentDir, Seed: *seed})
	if err != nil {
		return err
	}
	defer module.Module.Close()
	logger := module.Logger
	container := module.Module.Container()

	if *seed && container.Config.Features.Storage {
		written, err := container.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed storage: %w", err)
		}
		logger.Info("blogd.seeded", "count", written)
	}

	mux := http.NewServeMux()
	if err := module.Module.API(ctx).Register(mux); err != nil {
		return err
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	listener, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTP.Addr, err)
	}
	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("blogd.listening", "addr", listener.Addr().String(), "base_path", cfg.HTTP.BasePath)
		serveErr <- srv.Serve(listener)
	}()
	if ready != nil {
		ready <- listener.Addr().String()
	}

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("blogd.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
