package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuepoint/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Serve caption queries over HTTP",
	Long: `Load a caption source and serve it to a playback host over HTTP.

Endpoints:
  GET  /healthz              liveness
  GET  /v1/session           session id, state and entry count
  GET  /v1/entries           the parsed timeline
  GET  /v1/captions?t=SEC    caption visible at SEC of playback (204 when none)
  POST /v1/deinit            end the session

Examples:
  cuepoint serve captions.vtt
  cuepoint serve https://example.com/subs/en.vtt --addr :9090`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	ref := args[0]

	if err := checkSourceArg(ref); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// acquisition continues in the background; the server reports 503
	// until the captions are ready
	acquireCtx, cancel := acquireContext(ctx)
	defer cancel()

	source, err := openSource(acquireCtx, cmd, ref, false)
	if err != nil {
		return err
	}
	defer source.Deinit()

	return server.New(source, logger).Run(ctx, cfg.Server.Addr)
}
