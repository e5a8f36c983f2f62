package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mgpai22/cuepoint/internal/captions"
	"github.com/mgpai22/cuepoint/internal/loader"
)

const (
	envPrefix  = "CUEPOINT"
	configName = "cuepoint"
)

type Config struct {
	Verbose bool
	Loader  LoaderConfig
	Server  ServerConfig
	Styles  captions.Styles

	// file the values were read from, empty when none was found
	File string
}

type LoaderConfig struct {
	HTTPTimeout    time.Duration
	MaxBytes       int64
	UserAgent      string
	FFmpegPath     string
	FFprobePath    string
	SubtitleStream int
	SubtitleLang   string
	YouTubeLang    string
	InstallYTDLP   bool
	AcquireTimeout time.Duration
}

type ServerConfig struct {
	Addr string
}

// config keys bound to command line flags, when the command defines them
var flagKeys = map[string]string{
	"verbose":                "verbose",
	"server.addr":            "addr",
	"loader.subtitle_stream": "stream",
	"loader.subtitle_lang":   "stream-lang",
	"loader.youtube_lang":    "lang",
	"loader.acquire_timeout": "timeout",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)

	v.SetDefault("loader.http_timeout", loader.DefaultTimeout)
	v.SetDefault("loader.max_bytes", loader.DefaultMaxBytes)
	v.SetDefault("loader.user_agent", loader.DefaultUserAgent)
	v.SetDefault("loader.ffmpeg_path", "")
	v.SetDefault("loader.ffprobe_path", "")
	v.SetDefault("loader.subtitle_stream", 0)
	v.SetDefault("loader.subtitle_lang", "")
	v.SetDefault("loader.youtube_lang", loader.DefaultLanguage)
	v.SetDefault("loader.install_ytdlp", false)
	v.SetDefault("loader.acquire_timeout", 2*time.Minute)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("styles.color", captions.DefaultStyles.Color)
	v.SetDefault("styles.size", captions.DefaultStyles.Size)
	v.SetDefault("styles.background", captions.DefaultStyles.Background)
	v.SetDefault("styles.font", captions.DefaultStyles.Font)
}

// Load layers defaults, the YAML config file, CUEPOINT_* environment
// variables and flags, in increasing priority. An explicit path must
// exist; otherwise cuepoint.yaml is looked up in the working directory and
// the user config directory.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	if flags != nil {
		for key, name := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{
		Verbose: v.GetBool("verbose"),
		Loader: LoaderConfig{
			HTTPTimeout:    v.GetDuration("loader.http_timeout"),
			MaxBytes:       v.GetInt64("loader.max_bytes"),
			UserAgent:      v.GetString("loader.user_agent"),
			FFmpegPath:     v.GetString("loader.ffmpeg_path"),
			FFprobePath:    v.GetString("loader.ffprobe_path"),
			SubtitleStream: v.GetInt("loader.subtitle_stream"),
			SubtitleLang:   v.GetString("loader.subtitle_lang"),
			YouTubeLang:    v.GetString("loader.youtube_lang"),
			InstallYTDLP:   v.GetBool("loader.install_ytdlp"),
			AcquireTimeout: v.GetDuration("loader.acquire_timeout"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Styles: captions.Styles{
			Color:      v.GetString("styles.color"),
			Size:       v.GetString("styles.size"),
			Background: v.GetString("styles.background"),
			Font:       v.GetString("styles.font"),
		},
		File: v.ConfigFileUsed(),
	}

	if cfg.Loader.SubtitleStream < 0 {
		return nil, fmt.Errorf("loader.subtitle_stream must not be negative, got %d", cfg.Loader.SubtitleStream)
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, configName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// options for the loader package
func (c *Config) LoaderOptions() loader.Options {
	return loader.Options{
		HTTPTimeout:    c.Loader.HTTPTimeout,
		MaxBytes:       c.Loader.MaxBytes,
		UserAgent:      c.Loader.UserAgent,
		SubtitleStream: c.Loader.SubtitleStream,
		SubtitleLang:   c.Loader.SubtitleLang,
		YouTubeLang:    c.Loader.YouTubeLang,
		InstallYTDLP:   c.Loader.InstallYTDLP,
	}
}
