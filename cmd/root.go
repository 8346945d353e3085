package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/choirdex/config"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	cfg     = config.Default()
	logger  = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
)

var rootCmd = &cobra.Command{
	Use:   "choirdex",
	Short: "Choir part practice from MusicXML",
	Long: `choirdex reads MusicXML choral scores, schedules every part for MIDI
playback and lays each part out on a single staff for practice.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = log.InfoLevel
		}
		if verbose {
			level = log.DebugLevel
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

func Execute() {
	ctx := log.WithContext(context.Background(), logger)
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}
