package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsphweid/choirdex/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Note is a sounding key recovered from a note on/off pair.
type Note struct {
	Track         int     `json:"track"`
	Channel       uint8   `json:"channel"`
	Key           uint8   `json:"key"`
	Velocity      uint8   `json:"velocity"`
	StartBeat     float64 `json:"startBeat"`
	DurationBeats float64 `json:"durationBeats"`
}

type TrackInfo struct {
	Name      string `json:"name"`
	Channel   uint8  `json:"channel"`
	Program   uint8  `json:"program"`
	NoteCount int    `json:"noteCount"`
}

type Info struct {
	TicksPerQuarter uint16              `json:"ticksPerQuarter"`
	Tempo           float64             `json:"tempo"`
	TimeSignature   model.TimeSignature `json:"timeSignature"`
	Tracks          []TrackInfo         `json:"tracks"`
}

func ReadFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.FileNotFound(path)
		}
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	return Read(bytes.NewReader(dat))
}

func Read(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if rec := recover(); rec != nil {
			s = nil
			e = model.ParsingFailed(fmt.Sprint(rec))
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, model.ParsingFailed(err.Error())
	}
	return res, nil
}

func ticksPerQuarter(s *smf.SMF) (float64, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks.Ticks4th() == 0 {
		return 0, model.EncodingError("only metric time formats are supported")
	}
	return float64(ticks.Ticks4th()), nil
}

type pressKey struct {
	channel, key uint8
}

type press struct {
	tick     int64
	velocity uint8
}

// Notes pairs every note on with the next note off of the same key and
// channel in its track. Notes still held at the end of a track are dropped.
func Notes(s *smf.SMF) ([]Note, error) {
	tpq, err := ticksPerQuarter(s)
	if err != nil {
		return nil, err
	}

	res := []Note{}
	for i, track := range s.Tracks {
		pressed := make(map[pressKey][]press)
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			msg := midi.Message(event.Message)
			var channel, key, velocity uint8
			switch {
			case msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				k := pressKey{channel, key}
				pressed[k] = append(pressed[k], press{tick: absTicks, velocity: velocity})
			case msg.GetNoteOn(&channel, &key, &velocity), msg.GetNoteOff(&channel, &key, &velocity):
				k := pressKey{channel, key}
				held := pressed[k]
				if len(held) == 0 {
					continue
				}
				start := held[0]
				pressed[k] = held[1:]
				res = append(res, Note{
					Track:         i,
					Channel:       channel,
					Key:           key,
					Velocity:      start.velocity,
					StartBeat:     float64(start.tick) / tpq,
					DurationBeats: float64(absTicks-start.tick) / tpq,
				})
			}
		}
	}

	// smaller offsets first, then lower keys
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].StartBeat != res[j].StartBeat {
			return res[i].StartBeat < res[j].StartBeat
		}
		return res[i].Key < res[j].Key
	})
	return res, nil
}

// Inspect summarizes the tracks of a file. Tempo and meter come from the
// first meta events found, defaulting to 120 and 4/4.
func Inspect(s *smf.SMF) (Info, error) {
	tpq, err := ticksPerQuarter(s)
	if err != nil {
		return Info{}, err
	}
	info := Info{
		TicksPerQuarter: uint16(tpq),
		Tempo:           model.DefaultTempo,
		TimeSignature:   model.DefaultTimeSignature,
		Tracks:          []TrackInfo{},
	}

	var tempoSeen, meterSeen bool
	for _, track := range s.Tracks {
		var ti TrackInfo
		for _, event := range track {
			var bpm float64
			var num, denom, channel, key, velocity, program uint8
			var name string
			switch {
			case event.Message.GetMetaTempo(&bpm):
				if !tempoSeen {
					info.Tempo = bpm
					tempoSeen = true
				}
			case event.Message.GetMetaMeter(&num, &denom):
				if !meterSeen {
					info.TimeSignature = model.TimeSignature{Beats: int(num), BeatType: int(denom)}
					meterSeen = true
				}
			case event.Message.GetMetaTrackName(&name):
				ti.Name = name
			case midi.Message(event.Message).GetProgramChange(&channel, &program):
				ti.Channel = channel
				ti.Program = program
			case midi.Message(event.Message).GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				ti.Channel = channel
				ti.NoteCount++
			}
		}
		info.Tracks = append(info.Tracks, ti)
	}
	return info, nil
}
