package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/refmt/internal/app"
)

func (c *CLI) newFormatCmd() *cobra.Command {
	var opts app.RunOptions

	cmd := &cobra.Command{
		Use:   "format [dir]",
		Short: "Reformat source files beneath a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.BaseDir = "."
			if len(args) == 1 {
				opts.BaseDir = args[0]
			}
			return c.app.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Includes, "include", "i", nil, "Glob pattern of files to include (repeatable, default all files)")
	cmd.Flags().StringArrayVarP(&opts.Excludes, "exclude", "e", nil, "Glob pattern of files to exclude (repeatable)")
	cmd.Flags().StringVar(&opts.LineEnding, "line-ending", "AUTO", "Line ending of files after formatting: AUTO, KEEP, LF, CRLF, or CR")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "File encoding used to read and write source files (default utf-8)")
	cmd.Flags().StringVar(&opts.OptionsFile, "options", "", "Path of the formatter options document")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Directory holding the hash cache file (default <dir>/.refmt)")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 1, "Number of files to process concurrently")
	cmd.Flags().BoolVar(&opts.Skip, "skip", false, "Skip formatting entirely")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "Show per-file progress output")
	cmd.Flags().StringVar(&opts.SourceVersion, "source-version", "", "Engine source version")
	cmd.Flags().StringVar(&opts.ComplianceVersion, "compliance-version", "", "Engine compliance version")
	cmd.Flags().StringVar(&opts.TargetVersion, "target-version", "", "Engine target version")
	cmd.Flags().BoolVar(&opts.OverrideEngineVersions, "override-engine-versions", false,
		"Prefer the version flags over versions from the options document")

	return cmd
}
