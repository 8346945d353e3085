package midi

import (
	"fmt"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Chord is the set of keys held across all tracks from Beat until the next
// chord.
type Chord struct {
	Beat float64 `json:"beat"`
	Keys []uint8 `json:"keys"`
}

// Key names a chord by its sorted keys, e.g. "60-64-67".
func (c Chord) Key() string {
	return ChordKey(c.Keys)
}

func ChordKey(keys []uint8) string {
	sorted := append([]uint8(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	parts := make([]string, len(sorted))
	for i, k := range sorted {
		parts[i] = fmt.Sprint(k)
	}
	return strings.Join(parts, "-")
}

type keyEvent struct {
	tick  int64
	isOff bool
	key   uint8
}

// Chords merges every track and reports the keys sounding after each tick at
// which something changes. Silent stretches are left out.
func Chords(s *smf.SMF) ([]Chord, error) {
	tpq, err := ticksPerQuarter(s)
	if err != nil {
		return nil, err
	}

	var events []keyEvent
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			msg := midi.Message(event.Message)
			var channel, key, velocity uint8
			switch {
			case msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				events = append(events, keyEvent{tick: absTicks, key: key})
			case msg.GetNoteOn(&channel, &key, &velocity), msg.GetNoteOff(&channel, &key, &velocity):
				events = append(events, keyEvent{tick: absTicks, isOff: true, key: key})
			}
		}
	}

	// smaller ticks first, then note offs
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].isOff && !events[j].isOff
	})

	res := []Chord{}
	pressed := make(map[uint8]int)
	for i, evt := range events {
		if evt.isOff {
			if pressed[evt.key] > 1 {
				pressed[evt.key]--
			} else {
				delete(pressed, evt.key)
			}
		} else {
			pressed[evt.key]++
		}
		if i+1 < len(events) && events[i+1].tick == evt.tick {
			continue
		}
		if len(pressed) == 0 {
			continue
		}
		keys := make([]uint8, 0, len(pressed))
		for k := range pressed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(a, b int) bool {
			return keys[a] < keys[b]
		})
		res = append(res, Chord{Beat: float64(evt.tick) / tpq, Keys: keys})
	}
	return res, nil
}
