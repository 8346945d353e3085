package cmd

import (
	"fmt"

	"github.com/jsphweid/choirdex/midi"
	"github.com/spf13/cobra"
)

var (
	showNotes  bool
	showChords bool
)

func init() {
	addJSONFlag(inspectCmd)
	inspectCmd.Flags().BoolVar(&showNotes, "notes", false, "list every note")
	inspectCmd.Flags().BoolVar(&showChords, "chords", false, "list the chords sounding across all tracks")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects a MIDI file",
	Long:  `Summarizes the tracks of a MIDI file and optionally lists its notes and chords.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadFile(args[0])
		if err != nil {
			return err
		}
		info, err := midi.Inspect(s)
		if err != nil {
			return err
		}
		var notes []midi.Note
		if showNotes {
			if notes, err = midi.Notes(s); err != nil {
				return err
			}
		}
		var chords []midi.Chord
		if showChords {
			if chords, err = midi.Chords(s); err != nil {
				return err
			}
		}

		if asJSON {
			return printJSON(cmd.OutOrStdout(), struct {
				midi.Info
				Notes  []midi.Note  `json:"notes,omitempty"`
				Chords []midi.Chord `json:"chords,omitempty"`
			}{info, notes, chords})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d ticks per quarter, %.2f bpm, %s\n",
			info.TicksPerQuarter, info.Tempo, info.TimeSignature.DisplayName())
		for i, tr := range info.Tracks {
			fmt.Fprintf(out, "  track %d: %-16q channel %2d program %3d  %d notes\n",
				i, tr.Name, tr.Channel, tr.Program, tr.NoteCount)
		}
		for _, n := range notes {
			fmt.Fprintf(out, "%8.3f  track %d  key %3d vel %3d  %6.3f beats\n",
				n.StartBeat, n.Track, n.Key, n.Velocity, n.DurationBeats)
		}
		for _, c := range chords {
			fmt.Fprintf(out, "%8.3f  %s\n", c.Beat, c.Key())
		}
		return nil
	},
}
