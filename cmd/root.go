package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tapedeck/config"
	"tapedeck/logging"
)

var (
	cfg          config.Config
	cfgFile      string
	verboseLevel int
	logger       *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tapedeck",
	Short: "Terminal voice recorder and folder music player",
	Long: `tapedeck bundles two small audio tools for the terminal:

  record  capture microphone audio and save it as a WAV file
  play    play the mp3 and wav files of a folder as a looping playlist`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			path, err := config.DefaultPath()
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
			cfgFile = path
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ %v, using defaults\n", err)
		}

		level := cfg.LogLevel
		if verboseLevel > 0 {
			level = "debug"
		}
		logger, err = logging.New(cfg.LogFile, level)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		logger.Debug("config loaded", zap.String("path", cfgFile), zap.String("command", cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user config dir>/tapedeck/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verboseLevel, "verbose", "v", "log at debug level")

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(playCmd)
}
