// Command mergepdf concatenates PDFs in the order given.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"example.com/dmztools/internal/cli"
	"example.com/dmztools/internal/fetch"
	"example.com/dmztools/internal/merge"
	"example.com/dmztools/internal/outname"
)

func main() {
	os.Exit(cli.Execute(newCommand(outname.Resolver{}, fetch.New())))
}

func newCommand(names outname.Resolver, fc *fetch.Client) *cobra.Command {
	var output, name string
	cmd := &cobra.Command{
		Use:   "mergepdf <a.pdf> <b.pdf> [more.pdf...]",
		Short: "Merge PDF files in the order given",
		Long: `Merge two or more PDF files into one, keeping the argument order.

Inputs may be http(s) URLs; they are downloaded first and any that fail
are skipped. Without --output the result is written next to the first
local input (or the working directory) as <name>-<timestamp>.pdf, where
--name defaults to "merged".`,
		Args: cli.Args(cobra.MinimumNArgs(merge.MinInputs)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && name != "" {
				return cli.Usage("--output and --name cannot be combined")
			}
			cfg, log, err := cli.Setup(cmd)
			if err != nil {
				return err
			}

			inputs, cleanup, err := localInputs(cmd.Context(), fc, args, log)
			if err != nil {
				return err
			}
			defer cleanup()

			req := merge.Request{Inputs: inputs, Output: output}
			if err := req.Validate(); err != nil {
				return err
			}
			if req.Output == "" {
				req.Output, err = names.Resolve(name, "pdf", cfg.Merge.DefaultName, outDir(args))
			} else {
				err = os.MkdirAll(filepath.Dir(req.Output), 0o755)
			}
			if err != nil {
				return err
			}

			res, err := merge.Run(req)
			if err != nil {
				return err
			}
			log.Debug("merged", "inputs", len(inputs), "pages", res.Pages)
			fmt.Fprintf(cmd.OutOrStdout(), "Merged PDF saved to: %s (%d pages)\n", res.Output, res.Pages)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write exactly this file")
	cmd.Flags().StringVarP(&name, "name", "n", "", "base name for the timestamped output")
	return cli.Prepare(cmd)
}

// localInputs downloads the URL arguments into a temp dir and returns every
// input as a local path, in argument order. URLs that fail are dropped.
func localInputs(ctx context.Context, fc *fetch.Client, args []string, log *slog.Logger) ([]string, func(), error) {
	var urls []string
	for _, a := range args {
		if fetch.IsURL(a) {
			urls = append(urls, a)
		}
	}
	if len(urls) == 0 {
		return args, func() {}, nil
	}
	tmp, err := os.MkdirTemp("", "merge_dl_*")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmp) }
	_, skipped, err := fc.Batch(ctx, urls, tmp, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if len(skipped) > 0 {
		log.Warn("some URLs could not be downloaded", "skipped", len(skipped))
	}

	var inputs []string
	k := 0
	for _, a := range args {
		if !fetch.IsURL(a) {
			inputs = append(inputs, a)
			continue
		}
		lp := filepath.Join(tmp, "f_"+strconv.Itoa(k)+".pdf")
		k++
		if _, err := os.Stat(lp); err == nil {
			inputs = append(inputs, lp)
		}
	}
	if len(inputs) < merge.MinInputs {
		cleanup()
		return nil, nil, fmt.Errorf("not enough valid PDFs to merge: %d of %d URLs failed", len(skipped), len(urls))
	}
	return inputs, cleanup, nil
}

// outDir is the folder of the first local argument, or the working
// directory when every input is a URL.
func outDir(args []string) string {
	for _, a := range args {
		if !fetch.IsURL(a) {
			return filepath.Dir(a)
		}
	}
	return "."
}
