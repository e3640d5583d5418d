package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tapedeck/audio"
	"tapedeck/player"
	"tapedeck/tui"
)

var volumePercent int

var playCmd = &cobra.Command{
	Use:   "play [folder]",
	Short: "Play the music files of a folder",
	Long: `Opens the music player on folder, or on the last folder used when none
is given. Every .mp3 and .wav file directly inside the folder becomes part
of the playlist, which loops back to the first track after the last one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.MusicDir = args[0]
		}
		volume, useConfig, err := parseVolume(volumePercent)
		if err != nil {
			return err
		}
		if !useConfig {
			cfg.Volume = volume
		}

		sink := audio.NewOtoOutput(cfg.Volume)
		p := player.New(sink,
			player.WithVolume(cfg.Volume),
			player.WithLogger(logger.Named("player")),
		)
		return tui.RunPlayer(p, cfg, cfgFile, logger)
	},
}

// parseVolume converts the --volume flag; -1 keeps the configured volume
func parseVolume(percent int) (volume float64, useConfig bool, err error) {
	if percent == -1 {
		return 0, true, nil
	}
	if percent < 0 || percent > 100 {
		return 0, false, fmt.Errorf("volume must be between 0 and 100, got %d", percent)
	}
	return audio.ClampVolume(float64(percent) / 100), false, nil
}

func init() {
	playCmd.Flags().IntVar(&volumePercent, "volume", -1, "initial volume (0-100), -1 means use config")
}
