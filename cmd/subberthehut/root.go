package main

import (
	"github.com/spf13/cobra"

	"subberthehut/internal/subtitles"
)

// fetchFlags holds the per-invocation flag values.
type fetchFlags struct {
	languages  string
	alwaysAsk  bool
	neverAsk   bool
	force      bool
	sameName   bool
	exitOnFail bool
	limit      int
	quiet      int
	scope      *scopeState
}

func newRootCommand() *cobra.Command {
	var configFlag string
	flags := &fetchFlags{scope: &scopeState{current: subtitles.ScopeBoth}}

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "subberthehut [flags] <file>...",
		Short:         "Download subtitles for video files by hash and name",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runFetch(cmd, ctx, flags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	fs := rootCmd.Flags()
	fs.StringVarP(&flags.languages, "lang", "l", "", "Comma-separated subtitle languages, or \"all\"")
	fs.BoolVarP(&flags.alwaysAsk, "always-ask", "a", false, "Always show the list and ask, even with a hash match")
	fs.BoolVarP(&flags.neverAsk, "never-ask", "n", false, "Never ask; take the first hash match or else the first result")
	fs.BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing subtitle file")
	fs.BoolVarP(&flags.sameName, "same-name", "s", false, "Name the subtitle after the video file")
	fs.BoolVarP(&flags.exitOnFail, "exit-on-fail", "e", false, "Stop at the first file that fails")
	fs.IntVarP(&flags.limit, "limit", "L", 0, "Maximum number of search results")
	fs.CountVarP(&flags.quiet, "quiet", "q", "Reduce output; repeat for less")
	addScopeFlag(fs, flags.scope, subtitles.ScopeHashOnly, "hash-search-only", "o", "Only use fingerprint matches")
	addScopeFlag(fs, flags.scope, subtitles.ScopeNameOnly, "name-search-only", "O", "Only use file name matches")

	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
