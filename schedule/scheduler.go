package schedule

import (
	"math"
	"sort"

	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/util"
)

// DefaultArticulationGap is how many beats are cut from a note that is
// followed by the same pitches so the sampler attacks again.
const DefaultArticulationGap = 0.1

const defaultVelocity = 80

var velocities = map[model.Dynamic]uint8{
	model.PPP: 20,
	model.PP:  35,
	model.P:   50,
	model.MP:  65,
	model.MF:  80,
	model.F:   95,
	model.FF:  110,
	model.FFF: 127,
}

// Velocity maps a dynamic marking to a MIDI velocity. Hairpins and missing
// markings play at mf.
func Velocity(d *model.Dynamic) uint8 {
	if d == nil {
		return defaultVelocity
	}
	if v, ok := velocities[*d]; ok {
		return v
	}
	return defaultVelocity
}

type Scheduler struct {
	ArticulationGap float64
}

func New() Scheduler {
	return Scheduler{ArticulationGap: DefaultArticulationGap}
}

// Build schedules a score with the default articulation gap.
func Build(score model.Score) Schedule {
	return New().Schedule(score)
}

type flatNote struct {
	note          model.Note
	measureNumber int
}

func flatten(part model.Part) []flatNote {
	var res []flatNote
	for _, m := range part.Measures {
		for _, n := range m.Notes {
			res = append(res, flatNote{note: n, measureNumber: m.Number})
		}
	}
	return res
}

func (s Scheduler) Schedule(score model.Score) Schedule {
	events := []Event{}
	var maxBeat float64

	for partIndex, part := range score.Parts {
		var end float64
		events, end = s.schedulePart(events, flatten(part), partIndex)
		maxBeat = math.Max(maxBeat, end)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartBeat < events[j].StartBeat
	})

	tempo := score.Tempo
	if tempo <= 0 {
		tempo = model.DefaultTempo
	}
	return Schedule{Events: events, TotalBeats: maxBeat, Tempo: tempo}
}

func (s Scheduler) schedulePart(events []Event, notes []flatNote, partIndex int) ([]Event, float64) {
	var cursor float64

	for i, entry := range notes {
		note := entry.note
		if note.IsRest || len(note.Pitches) == 0 {
			cursor += note.Duration
			continue
		}
		// the chain sounds from its last note
		if note.IsTied {
			cursor += note.Duration
			continue
		}

		total := note.Duration
		start := cursor
		for j := i - 1; j >= 0; j-- {
			prev := notes[j].note
			if !prev.IsTied || prev.IsRest || !prev.SamePitches(note) {
				break
			}
			total += prev.Duration
			start -= prev.Duration
		}

		sounding := total - s.gap(notes, i, total)
		velocity := Velocity(note.Dynamic)
		for _, p := range note.Pitches {
			events = append(events, Event{
				PartIndex:     partIndex,
				MIDINote:      clampMIDI(p.MIDINumber()),
				Velocity:      velocity,
				StartBeat:     start,
				DurationBeats: sounding,
				MeasureNumber: entry.measureNumber,
				NoteIndex:     i,
			})
		}
		cursor += note.Duration
	}
	return events, cursor
}

func (s Scheduler) gap(notes []flatNote, i int, total float64) float64 {
	if i+1 >= len(notes) {
		return 0
	}
	next := notes[i+1].note
	if next.IsRest || !next.SamePitches(notes[i].note) {
		return 0
	}
	return math.Min(s.ArticulationGap, total*0.25)
}

func clampMIDI(n int) uint8 {
	return uint8(util.Clamp(n, 0, 127))
}
