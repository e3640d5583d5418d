package cmd

import (
	"github.com/spf13/cobra"

	"tapedeck/audio"
	"tapedeck/recorder"
	"tapedeck/tui"
)

var recordDir string

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record from the default microphone",
	Long: `Opens the voice recorder. Record starts a new take, Pause and Resume
suspend capture, Stop ends the take and Save writes it as a 16-bit mono
44.1 kHz WAV file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if recordDir != "" {
			cfg.RecordingsDir = recordDir
		}

		rec := recorder.New(audio.NewMalgoCapture(), recorder.WithLogger(logger.Named("recorder")))
		return tui.RunRecorder(rec, cfg, logger)
	},
}

func init() {
	recordCmd.Flags().StringVarP(&recordDir, "dir", "d", "", "default folder for saved recordings (overrides config)")
}
