package cmd

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/choirdex/db"
	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/musicxml"
	"github.com/jsphweid/choirdex/storage"
	"github.com/spf13/cobra"
)

var asJSON bool

func addJSONFlag(c *cobra.Command) {
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loggerFor(c *cobra.Command) *log.Logger {
	return log.FromContext(c.Context())
}

// readScore parses a MusicXML file, or loads a stored score when arg is a
// score id.
func readScore(c *cobra.Command, arg string) (model.Score, error) {
	scores := openScores(c)
	if scores.Exists(arg) {
		return scores.Load(arg)
	}
	score, err := musicxml.ParseFile(arg)
	if err != nil {
		return model.Score{}, err
	}
	return *score, nil
}

func openScores(c *cobra.Command) *storage.Scores {
	return storage.NewScores(cfg.ScoresDir(), loggerFor(c))
}

func openSettings(c *cobra.Command) (*storage.Settings, error) {
	return storage.OpenSettings(cfg.SettingsPath(), storage.DefaultFlushDelay, loggerFor(c))
}

// openIndex returns nil when no DynamoDB endpoint is configured.
func openIndex(c *cobra.Command) *db.Index {
	if !cfg.Dynamo.Enabled() {
		return nil
	}
	ix, err := db.NewIndex(cfg.Dynamo.Endpoint, cfg.Dynamo.Region, cfg.Dynamo.Table)
	if err != nil {
		loggerFor(c).Warn("score index disabled", "err", err)
		return nil
	}
	return ix
}
