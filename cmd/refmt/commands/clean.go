package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/refmt/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	var opts app.RunOptions

	cmd := &cobra.Command{
		Use:   "clean [dir]",
		Short: "Remove the hash cache so the next run reformats everything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts.BaseDir = "."
			if len(args) == 1 {
				opts.BaseDir = args[0]
			}
			return c.app.Clean(opts)
		},
	}

	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Directory holding the hash cache file (default <dir>/.refmt)")

	return cmd
}
