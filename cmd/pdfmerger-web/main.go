// Command pdfmerger-web serves the browser UI for merging PDFs found under a
// root folder.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/dmztools/internal/config"
	"example.com/dmztools/internal/logging"
	"example.com/dmztools/internal/qr"
	"example.com/dmztools/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "pdfmerger-web:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	srv, log, err := setup(args, stderr)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("PDF merger UI listening", "url", "http://localhost"+srv.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// setup parses flags, loads the config and prepares the output folders.
func setup(args []string, stderr io.Writer) (*http.Server, *slog.Logger, error) {
	fs := flag.NewFlagSet("pdfmerger-web", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		root     = fs.String("root", "", "root directory to scan PDFs (default from config, else pdfs)")
		addr     = fs.String("addr", "", "http listen address, e.g. :8080 (default from config)")
		cfgPath  = fs.String("config", "", "config file (default: first dmztools.yml found)")
		logLevel = fs.String("log-level", "", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Find(*cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if *root == "" {
		*root = cfg.Web.Root
	}
	if *addr == "" {
		*addr = cfg.Web.Addr
	}
	if *logLevel == "" {
		*logLevel = cfg.LogLevel
	}
	log := logging.New(*logLevel, stderr)

	s := web.New(*root)
	s.MergeBase = cfg.Merge.DefaultName
	s.QRBase = cfg.QR.DefaultName
	s.QR = qr.Options{Level: cfg.QR.Level, ModulePixels: cfg.QR.ModulePixels}
	s.Log = log.With("component", "web")

	for _, dir := range []string{s.OutDir(), s.FetchDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	log.Debug("serving", "root", *root, "out", s.OutDir())

	return &http.Server{
		Addr:              *addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}, log, nil
}
