// Command dmztools is the desktop app: merge PDFs, fetch PDFs from links and
// create QR codes.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"example.com/dmztools/internal/app"
	"example.com/dmztools/internal/config"
	"example.com/dmztools/internal/logging"
	"example.com/dmztools/internal/qr"
	"example.com/dmztools/internal/ui"
)

var (
	cfgFlag   = flag.String("config", "", "config file (default: first dmztools.yml found)")
	levelFlag = flag.String("log-level", "", "debug, info, warn or error")
)

func main() {
	flag.Parse()

	cfg, err := config.Find(*cfgFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dmztools: config:", err)
		os.Exit(1)
	}
	level := cfg.LogLevel
	if *levelFlag != "" {
		level = *levelFlag
	}
	log := logging.New(level, os.Stderr)

	ctrl := app.New(options(cfg, log))
	log.Debug("starting", "qr_dir", cfg.QR.OutputDir)
	ui.Run(ctrl, log.With("component", "ui"))
}

// options maps the loaded settings onto the controller.
func options(cfg *config.Config, log *slog.Logger) app.Options {
	return app.Options{
		MergeBase:   cfg.Merge.DefaultName,
		QRBase:      cfg.QR.DefaultName,
		QRDir:       cfg.QR.OutputDir,
		QR:          qr.Options{Level: cfg.QR.Level, ModulePixels: cfg.QR.ModulePixels},
		DownloadDir: cfg.Merge.DownloadDir,
		Logger:      log,
	}
}
