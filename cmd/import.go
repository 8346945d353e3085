package cmd

import (
	"fmt"

	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/musicxml"
	"github.com/jsphweid/choirdex/util"
	"github.com/spf13/cobra"
)

var maxImport int

func init() {
	importCmd.Flags().IntVar(&maxImport, "max", 0, "stop after this many files, 0 for all")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file|dir>",
	Short: "Stores MusicXML scores",
	Long: `Parses every MusicXML file under a path and stores the scores. When a
DynamoDB endpoint is configured each score is also indexed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFor(cmd)
		paths, err := util.GatherScorePaths(args[0], maxImport)
		if err != nil {
			return err
		}

		scores := openScores(cmd)
		index := openIndex(cmd)
		settings, err := openSettings(cmd)
		if err != nil {
			return err
		}
		userParts := settings.UserPartTypes()

		imported := 0
		for i, path := range paths {
			score, err := musicxml.ParseFile(path)
			if err != nil {
				logger.Warn("skipping", "path", path, "err", err)
				continue
			}
			score.UserPartTypes = userParts
			if err := scores.Save(score); err != nil {
				return err
			}
			if index != nil {
				if err := index.Put(model.Summarize(*score)); err != nil {
					logger.Warn("could not index score", "id", score.ID, "err", err)
				}
			}
			imported++
			logger.Debug("imported", "n", i+1, "of", len(paths), "title", score.Title, "id", score.ID)
		}

		logger.Info("import finished", "imported", imported, "skipped", len(paths)-imported)
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d scores imported into %s\n", imported, len(paths), scores.Dir())
		return nil
	},
}
