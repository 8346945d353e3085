package cmd

import (
	"fmt"
	"time"

	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/storage"
	"github.com/spf13/cobra"
)

func init() {
	addJSONFlag(historyCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [score id]",
	Short: "Lists practice sessions",
	Long:  `Lists recorded practice sessions for one score, newest first, or all of them.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		history := storage.NewHistory(cfg.HistoryPath())
		var sessions []model.PracticeSession
		var err error
		if len(args) == 1 {
			sessions, err = history.Sessions(args[0])
		} else {
			sessions, err = history.All()
		}
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), sessions)
		}

		out := cmd.OutOrStdout()
		total := 0.0
		for _, s := range sessions {
			total += s.DurationSeconds
			measures := "all"
			if s.StartMeasure != 0 || s.EndMeasure != 0 {
				measures = fmt.Sprintf("m%d-%d", s.StartMeasure, s.EndMeasure)
			}
			fmt.Fprintf(out, "%s  %s  %-8s %v  %s\n",
				s.Date.Local().Format("2006-01-02 15:04"),
				s.ScoreID,
				measures,
				s.PartTypes,
				time.Duration(s.DurationSeconds*float64(time.Second)).Round(time.Second),
			)
		}
		fmt.Fprintf(out, "%d sessions, %s total\n",
			len(sessions), time.Duration(total*float64(time.Second)).Round(time.Second))
		return nil
	},
}
