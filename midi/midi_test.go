package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/musicxml"
	"github.com/jsphweid/choirdex/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 1.0 / TicksPerQuarter

func hymn(t *testing.T) model.Score {
	score, err := musicxml.ParseFile("../musicxml/testdata/evening_hymn.musicxml")
	require.NoError(t, err)
	return *score
}

type sounding struct {
	track int
	key   uint8
	start float64
	dur   float64
}

func sortSounding(s []sounding) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].start != s[j].start {
			return s[i].start < s[j].start
		}
		if s[i].track != s[j].track {
			return s[i].track < s[j].track
		}
		return s[i].key < s[j].key
	})
}

func TestRoundTrip(t *testing.T) {
	score := hymn(t)
	sched := schedule.Build(score)

	data, err := Encode(sched, score.Parts)
	require.NoError(t, err)

	s, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, s.Tracks, len(score.Parts)+1)

	notes, err := Notes(s)
	require.NoError(t, err)
	require.Len(t, notes, len(sched.Events))

	expected := []sounding{}
	for _, e := range sched.Events {
		expected = append(expected, sounding{e.PartIndex + 1, e.MIDINote, e.StartBeat, e.DurationBeats})
	}
	actual := []sounding{}
	for _, n := range notes {
		actual = append(actual, sounding{n.Track, n.Key, n.StartBeat, n.DurationBeats})
	}
	sortSounding(expected)
	sortSounding(actual)

	for i := range expected {
		assert.Equal(t, expected[i].track, actual[i].track)
		assert.Equal(t, expected[i].key, actual[i].key)
		assert.InDelta(t, expected[i].start, actual[i].start, tick)
		assert.InDelta(t, expected[i].dur, actual[i].dur, tick)
	}
}

func TestInspect(t *testing.T) {
	score := hymn(t)
	data, err := Encode(schedule.Build(score), score.Parts)
	require.NoError(t, err)
	s, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	info, err := Inspect(s)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(uint16(TicksPerQuarter), info.TicksPerQuarter)
	assert.InDelta(100.0, info.Tempo, 1e-6)
	assert.Equal(model.TimeSignature{Beats: 3, BeatType: 4}, info.TimeSignature)
	require.Len(t, info.Tracks, 6)
	assert.Equal("", info.Tracks[0].Name)
	assert.Equal(0, info.Tracks[0].NoteCount)
	for i, part := range score.Parts {
		ti := info.Tracks[i+1]
		assert.Equal(part.Name, ti.Name)
		assert.Equal(part.MIDIChannel, ti.Channel)
		assert.Equal(part.MIDIProgram, ti.Program)
	}
	assert.Greater(info.Tracks[1].NoteCount, 0)
}

func TestRepeatedKeyKeepsBothNotes(t *testing.T) {
	sched := schedule.Schedule{Tempo: 90, TotalBeats: 3, Events: []schedule.Event{
		{MIDINote: 60, Velocity: 80, StartBeat: 0, DurationBeats: 1},
		{MIDINote: 60, Velocity: 95, StartBeat: 1, DurationBeats: 1},
		{MIDINote: 67, Velocity: 50, StartBeat: 2, DurationBeats: 0},
	}}
	parts := []model.Part{{Name: "Alto", Type: model.Alto, MIDIChannel: 3, MIDIProgram: 52}}

	data, err := Encode(sched, parts)
	require.NoError(t, err)
	s, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	notes, err := Notes(s)
	require.NoError(t, err)
	require.Len(t, notes, 3)

	assert := assert.New(t)
	assert.Equal(1.0, notes[0].DurationBeats)
	assert.Equal(uint8(80), notes[0].Velocity)
	assert.Equal(1.0, notes[1].StartBeat)
	assert.Equal(1.0, notes[1].DurationBeats)
	assert.Equal(uint8(95), notes[1].Velocity)
	assert.Equal(uint8(3), notes[1].Channel)
	// zero length notes still get one tick
	assert.Equal(tick, notes[2].DurationBeats)

	info, err := Inspect(s)
	require.NoError(t, err)
	assert.InDelta(90.0, info.Tempo, 1e-3)
	assert.Equal(model.DefaultTimeSignature, info.TimeSignature)
}

func TestWriteAndReadFile(t *testing.T) {
	score := hymn(t)
	path := filepath.Join(t.TempDir(), "hymn.mid")
	require.NoError(t, WriteFile(path, schedule.Build(score), score.Parts))

	s, err := ReadFile(path)
	require.NoError(t, err)
	notes, err := Notes(s)
	require.NoError(t, err)
	assert.NotEmpty(t, notes)
}

func TestReadErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.ErrorIs(t, err, model.ErrFileNotFound)

	path := filepath.Join(t.TempDir(), "junk.mid")
	require.NoError(t, os.WriteFile(path, []byte("definitely not midi"), 0644))
	_, err = ReadFile(path)
	assert.ErrorIs(t, err, model.ErrParsingFailed)
}

func TestChords(t *testing.T) {
	sched := schedule.Schedule{Tempo: 120, TotalBeats: 2, Events: []schedule.Event{
		{PartIndex: 0, MIDINote: 72, Velocity: 80, StartBeat: 0, DurationBeats: 2},
		{PartIndex: 1, MIDINote: 64, Velocity: 80, StartBeat: 0, DurationBeats: 1},
		{PartIndex: 1, MIDINote: 65, Velocity: 80, StartBeat: 1, DurationBeats: 1},
	}}
	parts := []model.Part{
		{Name: "Soprano", Type: model.Soprano, MIDIChannel: 0, MIDIProgram: 52},
		{Name: "Alto", Type: model.Alto, MIDIChannel: 1, MIDIProgram: 52},
	}
	data, err := Encode(sched, parts)
	require.NoError(t, err)
	s, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	chords, err := Chords(s)
	require.NoError(t, err)
	assert.Equal(t, []Chord{
		{Beat: 0, Keys: []uint8{64, 72}},
		{Beat: 1, Keys: []uint8{65, 72}},
	}, chords)
	assert.Equal(t, "64-72", chords[0].Key())
}

func TestChordKey(t *testing.T) {
	keys := []uint8{67, 60, 64}
	assert.Equal(t, "60-64-67", ChordKey(keys))
	assert.Equal(t, []uint8{67, 60, 64}, keys)
	assert.Equal(t, "", ChordKey(nil))
}

func TestEncodeNeedsEveryScheduledPart(t *testing.T) {
	sched := schedule.Schedule{Tempo: 120, TotalBeats: 1, Events: []schedule.Event{
		{PartIndex: 0, MIDINote: 60, Velocity: 80, StartBeat: 0, DurationBeats: 1},
		{PartIndex: 2, MIDINote: 64, Velocity: 80, StartBeat: 0, DurationBeats: 1},
	}}
	parts := []model.Part{{Name: "Soprano", Type: model.Soprano}, {Name: "Alto", Type: model.Alto}}

	_, err := Encode(sched, parts)
	assert.ErrorIs(t, err, model.ErrAudioEngine)

	_, err = Encode(sched, append(parts, model.Part{Name: "Tenor", Type: model.Tenor, MIDIChannel: 2}))
	assert.NoError(t, err)
}
