package model

import (
	"fmt"
	"strings"
)

type PartType string

const (
	Soprano       PartType = "soprano"
	Alto          PartType = "alto"
	Tenor         PartType = "tenor"
	Bass          PartType = "bass"
	Piano         PartType = "piano"
	Soprano1      PartType = "soprano1"
	Soprano2      PartType = "soprano2"
	Alto1         PartType = "alto1"
	Alto2         PartType = "alto2"
	Tenor1        PartType = "tenor1"
	Tenor2        PartType = "tenor2"
	Bass1         PartType = "bass1"
	Bass2         PartType = "bass2"
	Descant       PartType = "descant"
	Accompaniment PartType = "accompaniment"
)

var AllPartTypes = []PartType{
	Soprano, Alto, Tenor, Bass, Piano,
	Soprano1, Soprano2, Alto1, Alto2, Tenor1, Tenor2, Bass1, Bass2,
	Descant, Accompaniment,
}

var partTypeNames = map[PartType]string{
	Soprano: "Soprano", Alto: "Alto", Tenor: "Tenor", Bass: "Bass", Piano: "Piano",
	Soprano1: "Soprano 1", Soprano2: "Soprano 2", Alto1: "Alto 1", Alto2: "Alto 2",
	Tenor1: "Tenor 1", Tenor2: "Tenor 2", Bass1: "Bass 1", Bass2: "Bass 2",
	Descant: "Descant", Accompaniment: "Accompaniment",
}

// ParsePartType accepts the raw value ("tenor1") or the display name ("Tenor 1").
func ParsePartType(s string) (PartType, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, pt := range AllPartTypes {
		if string(pt) == key {
			return pt, nil
		}
	}
	return "", fmt.Errorf("unknown part type %q", s)
}

func (pt PartType) DisplayName() string {
	if name, ok := partTypeNames[pt]; ok {
		return name
	}
	return string(pt)
}

func (pt PartType) IsVocal() bool {
	return pt != Piano && pt != Accompaniment
}

// DefaultMIDIProgram is choir aahs for voices and acoustic grand otherwise.
func (pt PartType) DefaultMIDIProgram() uint8 {
	if pt.IsVocal() {
		return 52
	}
	return 0
}

type ClefType string

const (
	TrebleClef ClefType = "treble"
	BassClef   ClefType = "bass"
)

func (pt PartType) Clef() ClefType {
	switch pt {
	case Bass, Bass1, Bass2:
		return BassClef
	}
	return TrebleClef
}

// OctaveTransposition is the number of octaves the written part sits above
// sounding pitch. Tenors read the octave treble clef.
func (pt PartType) OctaveTransposition() int {
	switch pt {
	case Tenor, Tenor1, Tenor2:
		return 1
	}
	return 0
}

type Part struct {
	Name        string    `json:"name"`
	Type        PartType  `json:"partType"`
	Measures    []Measure `json:"measures"`
	MIDIChannel uint8     `json:"midiChannel"`
	MIDIProgram uint8     `json:"midiProgram"`
}

func (p Part) IsVocal() bool {
	return p.Type.IsVocal()
}

func (p Part) Clef() ClefType {
	return p.Type.Clef()
}

func (p Part) OctaveTransposition() int {
	return p.Type.OctaveTransposition()
}

func (p Part) TotalBeats() float64 {
	var total float64
	for _, m := range p.Measures {
		total += m.TotalDuration()
	}
	return total
}

type Measure struct {
	Number        int            `json:"number"`
	Notes         []Note         `json:"notes"`
	TimeSignature *TimeSignature `json:"timeSignature,omitempty"`
	KeySignature  *KeySignature  `json:"keySignature,omitempty"`
}

func (m Measure) TotalDuration() float64 {
	var total float64
	for _, n := range m.Notes {
		total += n.Duration
	}
	return total
}
