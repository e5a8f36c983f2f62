package cli

import (
	"github.com/spf13/cobra"

	"github.com/mgpai22/cuepoint/internal/config"
	"github.com/mgpai22/cuepoint/internal/logging"
)

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cuepoint",
	Short: "Time-indexed captions for video playback",
	Long: `Cuepoint parses WebVTT, SRT, ASS and TTML captions into a millisecond
timeline and answers "what is on screen at time t" queries.

Captions can come from local files, HTTP URLs, YouTube videos or subtitle
tracks embedded in media containers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.NewLogger(cfg.Verbose)
		if cfg.File != "" {
			logger.Debugw("Loaded config", "file", cfg.File)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ./cuepoint.yaml)")
	rootCmd.PersistentFlags().
		StringP("format", "f", "", "Caption format of the source (vtt, srt, ass, ttml); guessed from the extension when empty")
	rootCmd.PersistentFlags().
		Int("stream", 0, "Subtitle track position inside a media container")
	rootCmd.PersistentFlags().
		String("stream-lang", "", "Prefer the media subtitle track tagged with this language (e.g., eng)")
	rootCmd.PersistentFlags().
		StringP("lang", "l", "", "Caption language to request from YouTube (e.g., en, es, fr)")
	rootCmd.PersistentFlags().
		Duration("timeout", 0, "Give up acquiring captions after this long (e.g., 30s)")
}
