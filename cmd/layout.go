package cmd

import (
	"fmt"

	"github.com/jsphweid/choirdex/notation"
	"github.com/spf13/cobra"
)

var (
	layoutPart  int
	layoutWidth float64
)

func init() {
	addJSONFlag(layoutCmd)
	layoutCmd.Flags().IntVar(&layoutPart, "part", 0, "index of the part to lay out")
	layoutCmd.Flags().Float64Var(&layoutWidth, "width", 0, "line width in points, 0 for the configured width")
	rootCmd.AddCommand(layoutCmd)
}

var layoutCmd = &cobra.Command{
	Use:   "layout <file|id>",
	Short: "Lays a part out in lines",
	Long:  `Positions the notes of one part on a single staff, broken into lines.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := readScore(cmd, args[0])
		if err != nil {
			return err
		}
		if layoutPart < 0 || layoutPart >= len(score.Parts) {
			return fmt.Errorf("score has %d parts, no part %d", len(score.Parts), layoutPart)
		}
		width := layoutWidth
		if width <= 0 {
			width = cfg.LayoutWidth
		}

		part := score.Parts[layoutPart]
		geometry := notation.GeometryForPart(part, cfg.StaffSpacing, cfg.Spacing)
		layout := notation.NewEngine(geometry, width).Layout(part)
		if asJSON {
			return printJSON(cmd.OutOrStdout(), layout)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s clef), %d lines\n", part.Name, geometry.Clef, len(layout.Lines))
		for i, line := range layout.Lines {
			first := line.Measures[0].Number
			last := line.Measures[len(line.Measures)-1].Number
			fmt.Fprintf(out, "  line %d: measures %d-%d, beats %.2f-%.2f\n",
				i+1, first, last, line.StartBeat, line.EndBeat)
		}
		return nil
	},
}
