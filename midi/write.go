package midi

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/schedule"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const TicksPerQuarter = 480

type timedMessage struct {
	tick  uint32
	isOff bool
	msg   midi.Message
}

// Build turns a schedule into a type 1 SMF. Track 0 carries tempo and meter,
// then every part gets its own track in part order.
func Build(sched schedule.Schedule, parts []model.Part) (*smf.SMF, error) {
	if n := sched.PartCount(); n > len(parts) {
		return nil, model.AudioEngineError(fmt.Sprintf("schedule plays %d parts but only %d were given", n, len(parts)))
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	tempo := sched.Tempo
	if tempo <= 0 {
		tempo = model.DefaultTempo
	}
	meter := firstTimeSignature(parts)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(float64(tempo)))
	conductor.Add(0, smf.MetaMeter(uint8(meter.Beats), uint8(meter.BeatType)))
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return nil, fmt.Errorf("adding conductor track: %w", err)
	}

	byPart := sched.ByPart()
	for i, part := range parts {
		tr := partTrack(part, byPart[i])
		if err := s.Add(tr); err != nil {
			return nil, fmt.Errorf("adding track for %s: %w", part.Name, err)
		}
	}
	return s, nil
}

// Encode renders the schedule as SMF bytes.
func Encode(sched schedule.Schedule, parts []model.Part) ([]byte, error) {
	s, err := Build(sched, parts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing midi: %w", err)
	}
	return buf.Bytes(), nil
}

func WriteFile(path string, sched schedule.Schedule, parts []model.Part) error {
	data, err := Encode(sched, parts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return model.StorageError(err.Error())
	}
	return nil
}

func partTrack(part model.Part, events []schedule.Event) smf.Track {
	channel := part.MIDIChannel % 16

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(part.Name))
	tr.Add(0, midi.ProgramChange(channel, part.MIDIProgram))

	var timed []timedMessage
	for _, e := range events {
		on := toTicks(e.StartBeat)
		off := toTicks(e.EndBeat())
		if off <= on {
			off = on + 1
		}
		timed = append(timed,
			timedMessage{tick: on, msg: midi.NoteOn(channel, e.MIDINote, e.Velocity)},
			timedMessage{tick: off, isOff: true, msg: midi.NoteOff(channel, e.MIDINote)},
		)
	}

	// releases go first so a repeated key is not cut by its own note off
	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].tick != timed[j].tick {
			return timed[i].tick < timed[j].tick
		}
		return timed[i].isOff && !timed[j].isOff
	})

	var last uint32
	for _, t := range timed {
		tr.Add(t.tick-last, t.msg)
		last = t.tick
	}
	tr.Close(0)
	return tr
}

func toTicks(beat float64) uint32 {
	if beat <= 0 {
		return 0
	}
	return uint32(math.Round(beat * TicksPerQuarter))
}

func firstTimeSignature(parts []model.Part) model.TimeSignature {
	for _, p := range parts {
		for _, m := range p.Measures {
			if m.TimeSignature != nil && m.TimeSignature.Beats > 0 && m.TimeSignature.BeatType > 0 {
				return *m.TimeSignature
			}
		}
	}
	return model.DefaultTimeSignature
}
