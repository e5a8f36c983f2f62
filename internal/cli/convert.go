package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuepoint/internal/captions"
	"github.com/mgpai22/cuepoint/internal/loader"
)

var convertCmd = &cobra.Command{
	Use:   "convert [source]",
	Short: "Convert captions to WebVTT or SRT",
	Long: `Parse a caption source and write it back out as WebVTT or SRT.

The output format follows the extension of --output unless --to is given.
Entries whose timing could not be decoded are left out.

Examples:
  cuepoint convert movie.srt -o movie.vtt
  cuepoint convert anime.ass --to srt
  cuepoint convert movie.mkv --stream 2 -o track2.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("output", "o", "", "Output file path")
	convertCmd.Flags().String("to", "", "Output format (vtt, srt)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ref := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	to, _ := cmd.Flags().GetString("to")

	if err := checkSourceArg(ref); err != nil {
		return err
	}

	format, outputPath, err := convertTarget(ref, outputPath, to)
	if err != nil {
		return err
	}

	writer, err := captions.NewWriter(format)
	if err != nil {
		return err
	}

	ctx, cancel := acquireContext(context.Background())
	defer cancel()

	source, err := openSource(ctx, cmd, ref, true)
	if err != nil {
		return err
	}

	logger.Infow("Converting captions",
		"source", ref,
		"output", outputPath,
		"format", format,
	)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := writer.Write(source.Entries(), file); err != nil {
		return fmt.Errorf("failed to write captions: %w", err)
	}

	logger.Infow("Captions written", "path", outputPath)
	return nil
}

// output format and path from --output and --to; the path defaults to the
// source name with the format's extension
func convertTarget(ref, outputPath, to string) (captions.Format, string, error) {
	var format captions.Format
	switch {
	case to != "":
		f, err := captions.ParseFormat(to)
		if err != nil {
			return "", "", err
		}
		format = f
	case outputPath != "":
		format = captions.FormatFromPath(outputPath)
	default:
		return "", "", fmt.Errorf("either --output or --to is required")
	}

	if outputPath == "" {
		if ref == stdinRef || loader.Classify(ref) == loader.KindHTTP || loader.Classify(ref) == loader.KindYouTube {
			outputPath = "captions" + captions.ExtensionFor(format)
		} else {
			baseName := strings.TrimSuffix(localName(ref), filepath.Ext(ref))
			outputPath = baseName + captions.ExtensionFor(format)
		}
	}

	return format, outputPath, nil
}

func localName(ref string) string {
	return strings.TrimPrefix(ref, "file://")
}
