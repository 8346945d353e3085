package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/choirdex/midi"
	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/musicxml"
	"github.com/jsphweid/choirdex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hymnPath = "../musicxml/testdata/evening_hymn.musicxml"

// run executes the root command with fresh flag values and returns stdout.
func run(t *testing.T, args ...string) string {
	t.Helper()
	asJSON, showNotes, showChords, verbose = false, false, false, false
	fromBeat, toBeat = 0, 0
	fromMeasure, toMeasure = noMeasure, noMeasure
	exportPath, addr = "", ""
	layoutPart, layoutWidth, maxImport = 0, 0, 0

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	ctx := log.WithContext(context.Background(), log.New(io.Discard))
	require.NoError(t, rootCmd.ExecuteContext(ctx))
	return out.String()
}

func withHome(t *testing.T) string {
	home := t.TempDir()
	t.Setenv("CHOIRDEX_HOME", home)
	t.Setenv("CHOIRDEX_CONFIG", "")
	t.Setenv("CHOIRDEX_DYNAMO_ENDPOINT", "")
	return home
}

func TestParseCommand(t *testing.T) {
	withHome(t)

	var score model.Score
	require.NoError(t, json.Unmarshal([]byte(run(t, "parse", hymnPath, "--json")), &score))
	assert.NotEmpty(t, score.Parts)

	text := run(t, "parse", hymnPath)
	assert.Contains(t, text, score.Title)
	assert.Contains(t, text, score.Parts[0].Name)
}

func TestExportAndInspect(t *testing.T) {
	home := withHome(t)
	out := filepath.Join(home, "hymn.mid")

	assert.Contains(t, run(t, "export", hymnPath, "-o", out), out)
	_, err := os.Stat(out)
	require.NoError(t, err)

	var info struct {
		midi.Info
		Notes  []midi.Note  `json:"notes"`
		Chords []midi.Chord `json:"chords"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "inspect", out, "--json", "--notes", "--chords")), &info))
	assert.Equal(t, uint16(midi.TicksPerQuarter), info.TicksPerQuarter)
	assert.NotEmpty(t, info.Tracks)
	assert.NotEmpty(t, info.Notes)
	assert.NotEmpty(t, info.Chords)
}

func TestImportThenLoadById(t *testing.T) {
	withHome(t)
	assert.Contains(t, run(t, "import", hymnPath), "1 of 1 scores imported")

	scores, err := openScores(rootCmd).LoadAll()
	require.NoError(t, err)
	require.Len(t, scores, 1)

	var byID model.Score
	require.NoError(t, json.Unmarshal([]byte(run(t, "parse", scores[0].ID, "--json")), &byID))
	assert.Equal(t, scores[0].Title, byID.Title)
	assert.Equal(t, []model.PartType{model.Tenor}, byID.UserPartTypes)
}

func TestPartsCommand(t *testing.T) {
	withHome(t)
	assert.Equal(t, "Tenor\n", run(t, "parts"))

	var body model.SettingsBody
	require.NoError(t, json.Unmarshal([]byte(run(t, "parts", "alto", "soprano", "--json")), &body))
	assert.Equal(t, []model.PartType{model.Alto, model.Soprano}, body.UserPartTypes)

	var again model.SettingsBody
	require.NoError(t, json.Unmarshal([]byte(run(t, "parts", "--json")), &again))
	assert.Equal(t, body, again)
}

func TestScheduleExcerpt(t *testing.T) {
	withHome(t)

	var sched struct {
		TotalBeats float64 `json:"totalBeats"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, "schedule", hymnPath, "--json", "--from", "0", "--to", "4")), &sched))
	assert.Equal(t, 4.0, sched.TotalBeats)
}

func TestScheduleMeasureExcerpt(t *testing.T) {
	withHome(t)

	score, err := musicxml.ParseFile(hymnPath)
	require.NoError(t, err)
	measures := score.Parts[0].Measures
	require.GreaterOrEqual(t, len(measures), 2)

	var sched struct {
		TotalBeats float64 `json:"totalBeats"`
		Events     []struct {
			MeasureNumber int `json:"measureNumber"`
		} `json:"events"`
	}
	second := fmt.Sprint(measures[1].Number)
	require.NoError(t, json.Unmarshal([]byte(run(t, "schedule", hymnPath, "--json",
		"--from-measure", second, "--to-measure", second)), &sched))
	assert.Equal(t, measures[1].TotalDuration(), sched.TotalBeats)
	require.NotEmpty(t, sched.Events)
	for _, e := range sched.Events {
		assert.Equal(t, measures[1].Number, e.MeasureNumber)
	}

	rootCmd.SetArgs([]string{"schedule", hymnPath, "--from-measure", "99"})
	assert.Error(t, rootCmd.ExecuteContext(log.WithContext(context.Background(), log.New(io.Discard))))
}

func TestHistoryShowsMeasureRange(t *testing.T) {
	withHome(t)
	assert.Contains(t, run(t, "history"), "0 sessions")

	history := storage.NewHistory(cfg.HistoryPath())
	_, err := history.Record(model.PracticeSession{ScoreID: "hymn", DurationSeconds: 30, PartTypes: []model.PartType{model.Tenor}})
	require.NoError(t, err)
	_, err = history.Record(model.PracticeSession{ScoreID: "hymn", DurationSeconds: 90, StartMeasure: 1, EndMeasure: 2})
	require.NoError(t, err)

	text := run(t, "history", "hymn")
	assert.Contains(t, text, " all ")
	assert.Contains(t, text, "m1-2")
	assert.Contains(t, text, "2 sessions, 2m0s total")
}
