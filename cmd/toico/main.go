// Command toico converts an image into a multi-resolution Windows icon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"example.com/dmztools/internal/cli"
	"example.com/dmztools/internal/icon"
)

func main() {
	os.Exit(cli.Execute(newCommand()))
}

func newCommand() *cobra.Command {
	var output, sizes string
	cmd := &cobra.Command{
		Use:   "toico <source>",
		Short: "Convert an image into a .ico file",
		Long: `Convert a PNG, JPEG, GIF, BMP, TIFF or WebP image into a .ico file
holding one frame per requested size. Sizes larger than the source are
skipped and no frame is ever upscaled.`,
		Args: cli.Args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			want := cfg.Icon.Sizes
			if cmd.Flags().Changed("sizes") {
				if want, err = icon.ParseSizes(sizes); err != nil {
					return err
				}
			}

			src := args[0]
			if st, err := os.Stat(src); err != nil || !st.Mode().IsRegular() {
				return fmt.Errorf("source image not found: %s", src)
			}
			path, err := icon.Convert(src, output, want)
			if err != nil {
				return err
			}
			log.Debug("icon written", "sizes", icon.FormatSizes(want), "output", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved icon to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination .ico (defaults to the source name with .ico)")
	cmd.Flags().StringVar(&sizes, "sizes", icon.FormatSizes(icon.DefaultSizes), "comma separated icon sizes")
	return cli.Prepare(cmd)
}
