package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mgpai22/cuepoint/internal/captions"
)

var parseCmd = &cobra.Command{
	Use:   "parse [source]",
	Short: "Parse captions and print the timeline",
	Long: `Parse a caption source and print every entry with its millisecond timing,
content lines and cue settings.

The source may be a local file, an HTTP(S) URL, a YouTube link, a media
container with an embedded subtitle track, or "-" for standard input.

Examples:
  cuepoint parse captions.vtt
  cuepoint parse movie.srt --output json
  cuepoint parse movie.mkv --stream 1 --output yaml
  cuepoint parse https://www.youtube.com/watch?v=VIDEO_ID --lang en`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().
		StringP("output", "o", "text", "Output format (text, json, yaml)")
}

func runParse(cmd *cobra.Command, args []string) error {
	ref := args[0]
	output, _ := cmd.Flags().GetString("output")

	if err := checkSourceArg(ref); err != nil {
		return err
	}

	ctx, cancel := acquireContext(context.Background())
	defer cancel()

	source, err := openSource(ctx, cmd, ref, true)
	if err != nil {
		return err
	}

	entries := source.Entries()
	logger.Infow("Parsed captions",
		"source", ref,
		"entries", len(entries),
	)

	return writeEntries(cmd.OutOrStdout(), entries, output)
}

func writeEntries(w io.Writer, entries []captions.Entry, output string) error {
	switch strings.ToLower(output) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "text", "":
		for _, entry := range entries {
			fmt.Fprintln(w, formatEntry(entry))
		}
		return nil
	default:
		return fmt.Errorf("unsupported output %q: use text, json, or yaml", output)
	}
}

// one line per entry: [id] begin --> end | content | settings
func formatEntry(entry captions.Entry) string {
	var b strings.Builder
	if entry.ID != "" {
		b.WriteString("[" + entry.ID + "] ")
	}
	b.WriteString(formatMillis(entry.Begin))
	b.WriteString(" --> ")
	b.WriteString(formatMillis(entry.End))
	if len(entry.Content) > 0 {
		b.WriteString(" | ")
		b.WriteString(strings.Join(entry.Content, " / "))
	}
	if len(entry.Options) > 0 {
		b.WriteString(" | ")
		b.WriteString(formatOptions(entry.Options))
	}
	return b.String()
}

func formatMillis(ms int64) string {
	if ms == captions.Unresolved {
		return "unresolved"
	}
	return (time.Duration(ms) * time.Millisecond).String()
}

func formatOptions(options captions.CueOptions) string {
	parts := make([]string, 0, len(options))
	for k, v := range options {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
