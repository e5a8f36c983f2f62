package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [source]",
	Short: "Show which caption is visible at given playback times",
	Long: `Load a caption source and report what a player would display at each
playback time passed with --at. Times are seconds of elapsed playback; the
same one second lead-in the player applies is used here.

Examples:
  cuepoint query captions.vtt --at 12.5
  cuepoint query movie.srt --at 0 --at 61 --at 125.25`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().
		Float64Slice("at", nil, "Elapsed playback time in seconds (repeatable)")
	_ = queryCmd.MarkFlagRequired("at")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ref := args[0]
	times, _ := cmd.Flags().GetFloat64Slice("at")

	if err := checkSourceArg(ref); err != nil {
		return err
	}

	ctx, cancel := acquireContext(context.Background())
	defer cancel()

	source, err := openSource(ctx, cmd, ref, true)
	if err != nil {
		return err
	}
	defer source.Deinit()

	out := cmd.OutOrStdout()
	for _, t := range times {
		payload := source.Query(t, nil)
		if payload == nil {
			fmt.Fprintf(out, "%gs: (nothing)\n", t)
			continue
		}
		fmt.Fprintf(out, "%gs: %s\n", t, strings.Join(payload.Content, " / "))
		logger.Debugw("Query matched",
			"elapsed", t,
			"begin", payload.Entry.Begin,
			"end", payload.Entry.End,
		)
	}
	return nil
}
