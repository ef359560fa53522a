package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/engrbugs/ticktok/internal/config"
)

var (
	verbose    bool
	quiet      bool
	configPath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ticktok",
	Short: "Turn SRT subtitles into short, word-grouped caption chunks",
	Long: `ticktok converts SRT subtitle files into short, precisely timed caption
chunks for TikTok/Reels-style burned-in captions, and resolves which chunk is
on screen at any point of video playback.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.toml or .yaml)")
}
