package cmd

import (
	"fmt"

	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/schedule"
	"github.com/spf13/cobra"
)

var (
	fromBeat    float64
	toBeat      float64
	fromMeasure int
	toMeasure   int
)

func init() {
	addJSONFlag(scheduleCmd)
	addWindowFlags(scheduleCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func addWindowFlags(c *cobra.Command) {
	c.Flags().Float64Var(&fromBeat, "from", 0, "first beat of an excerpt")
	c.Flags().Float64Var(&toBeat, "to", 0, "beat the excerpt ends before, 0 for the end")
	c.Flags().IntVar(&fromMeasure, "from-measure", noMeasure, "first measure of an excerpt")
	c.Flags().IntVar(&toMeasure, "to-measure", noMeasure, "last measure of an excerpt")
}

// noMeasure marks an unset measure flag. Pickups are numbered 0.
const noMeasure = -1

// buildSchedule schedules score and cuts the --from/--to or measure excerpt
// when asked. Measure numbers follow the first part.
func buildSchedule(score model.Score) (schedule.Schedule, error) {
	sched := cfg.Scheduler().Schedule(score)
	if fromMeasure != noMeasure || toMeasure != noMeasure {
		if len(score.Parts) == 0 || len(score.Parts[0].Measures) == 0 {
			return sched, fmt.Errorf("score has no measures")
		}
		part := score.Parts[0]
		first, last := fromMeasure, toMeasure
		if first == noMeasure {
			first = part.Measures[0].Number
		}
		if last == noMeasure {
			last = part.Measures[len(part.Measures)-1].Number
		}
		window, ok := sched.MeasureWindow(part, first, last)
		if !ok {
			return sched, fmt.Errorf("invalid measure excerpt %d..%d", first, last)
		}
		return window, nil
	}
	if fromBeat == 0 && toBeat == 0 {
		return sched, nil
	}
	to := toBeat
	if to == 0 {
		to = sched.TotalBeats
	}
	if fromBeat < 0 || to < fromBeat {
		return sched, fmt.Errorf("invalid excerpt %v..%v", fromBeat, to)
	}
	return sched.Window(fromBeat, to), nil
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <file|id>",
	Short: "Prints the MIDI events of a score",
	Long:  `Prints the note events every part plays, in beat order.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := readScore(cmd, args[0])
		if err != nil {
			return err
		}
		sched, err := buildSchedule(score)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), sched)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d events, %.2f beats, %.1fs at %d bpm\n",
			len(sched.Events), sched.TotalBeats, sched.TotalSeconds(), sched.Tempo)
		for _, e := range sched.Events {
			name := fmt.Sprint(e.PartIndex)
			if e.PartIndex < len(score.Parts) {
				name = score.Parts[e.PartIndex].Name
			}
			fmt.Fprintf(out, "%8.3f %7.2fs  %-12s m%-3d %3d vel %3d  %6.3f beats\n",
				e.StartBeat, sched.SecondsAt(e.StartBeat), name, e.MeasureNumber, e.MIDINote, e.Velocity, e.DurationBeats)
		}
		return nil
	},
}
