package schedule

import (
	"sort"

	"github.com/jsphweid/choirdex/model"
)

// Event is one sounding pitch. Beats are quarter notes from the start of the score.
type Event struct {
	PartIndex     int     `json:"partIndex"`
	MIDINote      uint8   `json:"midiNote"`
	Velocity      uint8   `json:"velocity"`
	StartBeat     float64 `json:"startBeat"`
	DurationBeats float64 `json:"durationBeats"`
	MeasureNumber int     `json:"measureNumber"`
	NoteIndex     int     `json:"noteIndex"`
}

func (e Event) EndBeat() float64 {
	return e.StartBeat + e.DurationBeats
}

// Schedule holds events sorted by StartBeat.
type Schedule struct {
	Events     []Event `json:"events"`
	TotalBeats float64 `json:"totalBeats"`
	Tempo      int     `json:"tempo"`
}

func (s Schedule) TotalSeconds() float64 {
	if s.Tempo <= 0 {
		return 0
	}
	return s.TotalBeats / float64(s.Tempo) * 60
}

// SecondsAt converts a beat position to wall-clock seconds at the schedule tempo.
func (s Schedule) SecondsAt(beat float64) float64 {
	if s.Tempo <= 0 {
		return 0
	}
	return beat / float64(s.Tempo) * 60
}

// EventIndex returns the index of the first event starting at or after beat.
// It is len(Events) when there is none.
func (s Schedule) EventIndex(beat float64) int {
	return sort.Search(len(s.Events), func(i int) bool {
		return s.Events[i].StartBeat >= beat
	})
}

// ActiveAt returns the events sounding at beat.
func (s Schedule) ActiveAt(beat float64) []Event {
	res := []Event{}
	end := s.EventIndex(beat)
	for end < len(s.Events) && s.Events[end].StartBeat == beat {
		end++
	}
	for _, e := range s.Events[:end] {
		if e.StartBeat <= beat && beat < e.EndBeat() {
			res = append(res, e)
		}
	}
	return res
}

// Window cuts the events starting in [from, to) into a new schedule that
// starts at beat 0. Events running past to are shortened.
func (s Schedule) Window(from, to float64) Schedule {
	if to <= from {
		return Schedule{Events: []Event{}, Tempo: s.Tempo}
	}
	events := []Event{}
	for i := s.EventIndex(from); i < len(s.Events) && s.Events[i].StartBeat < to; i++ {
		e := s.Events[i]
		if e.EndBeat() > to {
			e.DurationBeats = to - e.StartBeat
		}
		e.StartBeat -= from
		events = append(events, e)
	}
	return Schedule{Events: events, TotalBeats: to - from, Tempo: s.Tempo}
}

// ByPart groups events by part index, keeping their order.
func (s Schedule) ByPart() map[int][]Event {
	res := make(map[int][]Event)
	for _, e := range s.Events {
		res[e.PartIndex] = append(res[e.PartIndex], e)
	}
	return res
}

// MeasureStarts returns the beat at which each measure of part begins,
// keyed by measure number. Repeated numbers keep their first start.
func MeasureStarts(part model.Part) map[int]float64 {
	res := make(map[int]float64, len(part.Measures))
	var beat float64
	for _, m := range part.Measures {
		if _, ok := res[m.Number]; !ok {
			res[m.Number] = beat
		}
		beat += m.TotalDuration()
	}
	return res
}

// MeasureSpan returns the beats from the start of measure first to the end
// of measure last in part. ok is false when either is missing or last comes
// before first.
func MeasureSpan(part model.Part, first, last int) (from, to float64, ok bool) {
	starts := MeasureStarts(part)
	from, okFirst := starts[first]
	lastStart, okLast := starts[last]
	if !okFirst || !okLast || lastStart < from {
		return 0, 0, false
	}
	for _, m := range part.Measures {
		if m.Number == last {
			return from, lastStart + m.TotalDuration(), true
		}
	}
	return 0, 0, false
}

// MeasureWindow is Window over measures first..last of part, both included.
func (s Schedule) MeasureWindow(part model.Part, first, last int) (Schedule, bool) {
	from, to, ok := MeasureSpan(part, first, last)
	if !ok {
		return Schedule{Events: []Event{}, Tempo: s.Tempo}, false
	}
	return s.Window(from, to), true
}

// PartCount is the number of parts the events refer to.
func (s Schedule) PartCount() int {
	count := 0
	for _, e := range s.Events {
		if e.PartIndex+1 > count {
			count = e.PartIndex + 1
		}
	}
	return count
}
