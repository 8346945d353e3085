package cmd

import (
	"fmt"

	"github.com/jsphweid/choirdex/model"
	"github.com/spf13/cobra"
)

func init() {
	addJSONFlag(parseCmd)
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parses a MusicXML score",
	Long:  `Parses a .musicxml, .xml or .mxl file and prints what was found.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := readScore(cmd, args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), score)
		}
		describe(cmd, score)
		return nil
	},
}

func describe(cmd *cobra.Command, score model.Score) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", score.Title)
	if score.Composer != "" {
		fmt.Fprintf(out, "  by %s\n", score.Composer)
	}
	fmt.Fprintf(out, "  key %s, time %s, %d bpm, %d measures, %.1fs\n",
		score.KeySignature.DisplayName(),
		score.TimeSignature.DisplayName(),
		score.Tempo,
		score.MeasureCount(),
		score.DurationSeconds(),
	)
	for i, p := range score.Parts {
		fmt.Fprintf(out, "  %d. %-16s %-14s %3d measures  %6.1f beats\n",
			i, p.Name, p.Type.DisplayName(), len(p.Measures), p.TotalBeats())
	}
}
