package cmd

import (
	"errors"
	"fmt"

	"github.com/jsphweid/choirdex/midi"
	"github.com/spf13/cobra"
)

var exportPath string

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "where to write the .mid file")
	addWindowFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <file|id> -o out.mid",
	Short: "Writes a standard MIDI file",
	Long:  `Writes a type 1 MIDI file with one track per part, optionally only an excerpt.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportPath == "" {
			return errors.New("output file is required, use -o flag")
		}
		score, err := readScore(cmd, args[0])
		if err != nil {
			return err
		}
		sched, err := buildSchedule(score)
		if err != nil {
			return err
		}
		if err := midi.WriteFile(exportPath, sched, score.Parts); err != nil {
			return err
		}
		loggerFor(cmd).Info("exported", "path", exportPath, "events", len(sched.Events))
		fmt.Fprintln(cmd.OutOrStdout(), exportPath)
		return nil
	},
}
