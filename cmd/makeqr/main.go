// Command makeqr writes a QR code PNG for a URL.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"example.com/dmztools/internal/cli"
	"example.com/dmztools/internal/outname"
	"example.com/dmztools/internal/qr"
)

func main() {
	os.Exit(cli.Execute(newCommand(outname.Resolver{})))
}

func newCommand(names outname.Resolver) *cobra.Command {
	var (
		output, name, dir string
		opts              qr.Options
	)
	cmd := &cobra.Command{
		Use:   "makeqr <url>",
		Short: "Generate a QR code PNG",
		Long: `Generate a QR code PNG for a URL.

Without --output the image is written to --dir (the working directory by
default) as <name>-<timestamp>.png, where --name defaults to "qr".`,
		Args: cli.Args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && (name != "" || dir != "") {
				return cli.Usage("--output cannot be combined with --name or --dir")
			}
			cfg, log, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("level") {
				opts.Level = cfg.QR.Level
			}
			if !cmd.Flags().Changed("module-pixels") {
				opts.ModulePixels = cfg.QR.ModulePixels
			}
			if _, err := qr.ParseLevel(opts.Level); err != nil {
				return err
			}

			if output == "" {
				if dir == "" {
					dir = cfg.QR.OutputDir
				}
				if dir == "" {
					dir = "."
				}
				output, err = names.Resolve(name, "png", cfg.QR.DefaultName, dir)
				if err != nil {
					return err
				}
			}
			if err := qr.Generate(args[0], output, opts); err != nil {
				return err
			}
			if abs, err := filepath.Abs(output); err == nil {
				output = abs
			}
			log.Debug("qr written", "level", opts.Level, "output", output)
			fmt.Fprintf(cmd.OutOrStdout(), "QR code saved to: %s\n", output)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "write exactly this file")
	f.StringVarP(&name, "name", "n", "", "base name for the timestamped output")
	f.StringVarP(&dir, "dir", "d", "", "directory for the timestamped output")
	f.StringVar(&opts.Level, "level", "medium", "error correction: low, medium, high or highest")
	f.IntVar(&opts.ModulePixels, "module-pixels", qr.DefaultModulePixels, "pixels per module")
	f.IntVar(&opts.Size, "size", 0, "force a size×size image (overrides --module-pixels)")
	f.BoolVar(&opts.NoBorder, "no-border", false, "omit the quiet zone")
	return cli.Prepare(cmd)
}
