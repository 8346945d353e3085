package model

import "fmt"

type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

type KeySignature struct {
	Fifths int  `json:"fifths"`
	Mode   Mode `json:"mode"`
}

var majorKeyNames = []string{"C♭", "G♭", "D♭", "A♭", "E♭", "B♭", "F", "C", "G", "D", "A", "E", "B", "F♯", "C♯"}
var minorKeyNames = []string{"a♭", "e♭", "b♭", "f", "c", "g", "d", "a", "e", "b", "f♯", "c♯", "g♯", "d♯", "a♯"}

func (k KeySignature) DisplayName() string {
	i := k.Fifths + 7
	if i < 0 || i >= len(majorKeyNames) {
		return "?"
	}
	if k.Mode == Minor {
		return minorKeyNames[i]
	}
	return majorKeyNames[i]
}

type TimeSignature struct {
	Beats    int `json:"beats"`
	BeatType int `json:"beatType"`
}

func (t TimeSignature) DisplayName() string {
	return fmt.Sprintf("%d/%d", t.Beats, t.BeatType)
}

func (t TimeSignature) BeatsPerMeasure() int {
	return t.Beats
}

// BeatDuration is one beat in quarter notes.
func (t TimeSignature) BeatDuration() float64 {
	if t.BeatType == 0 {
		return 1
	}
	return 4 / float64(t.BeatType)
}

const DefaultTempo = 120

var DefaultKeySignature = KeySignature{Fifths: 0, Mode: Major}
var DefaultTimeSignature = TimeSignature{Beats: 4, BeatType: 4}

type Score struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Composer      string        `json:"composer,omitempty"`
	KeySignature  KeySignature  `json:"keySignature"`
	TimeSignature TimeSignature `json:"timeSignature"`
	Tempo         int           `json:"tempo"`
	Parts         []Part        `json:"parts"`
	UserPartTypes []PartType    `json:"userPartTypes"`
}

// NewScore returns an empty score with the default signatures, tempo and user part.
func NewScore() Score {
	return Score{
		Title:         "Untitled",
		KeySignature:  DefaultKeySignature,
		TimeSignature: DefaultTimeSignature,
		Tempo:         DefaultTempo,
		Parts:         []Part{},
		UserPartTypes: []PartType{Tenor},
	}
}

func (s Score) filterParts(keep func(Part) bool) []Part {
	res := []Part{}
	for _, p := range s.Parts {
		if keep(p) {
			res = append(res, p)
		}
	}
	return res
}

func (s Score) VocalParts() []Part {
	return s.filterParts(Part.IsVocal)
}

func (s Score) AccompanimentParts() []Part {
	return s.filterParts(func(p Part) bool { return !p.IsVocal() })
}

// UserParts are the parts whose type is one the user sings.
func (s Score) UserParts() []Part {
	return s.filterParts(func(p Part) bool {
		for _, pt := range s.UserPartTypes {
			if p.Type == pt {
				return true
			}
		}
		return false
	})
}

func (s Score) MeasureCount() int {
	if len(s.Parts) == 0 {
		return 0
	}
	return len(s.Parts[0].Measures)
}

func (s Score) DurationSeconds() float64 {
	if len(s.Parts) == 0 || s.Tempo <= 0 {
		return 0
	}
	return s.Parts[0].TotalBeats() / float64(s.Tempo) * 60
}
