package model

import (
	"fmt"
	"math"
	"strings"
)

type Step string

const (
	StepC Step = "c"
	StepD Step = "d"
	StepE Step = "e"
	StepF Step = "f"
	StepG Step = "g"
	StepA Step = "a"
	StepB Step = "b"
)

var stepSemitones = map[Step]int{
	StepC: 0, StepD: 2, StepE: 4, StepF: 5, StepG: 7, StepA: 9, StepB: 11,
}

var stepIndexes = map[Step]int{
	StepC: 0, StepD: 1, StepE: 2, StepF: 3, StepG: 4, StepA: 5, StepB: 6,
}

// ParseStep accepts "C".."B" in either case.
func ParseStep(s string) (Step, bool) {
	step := Step(strings.ToLower(strings.TrimSpace(s)))
	_, ok := stepIndexes[step]
	return step, ok
}

// Semitone is the offset of the step above C.
func (s Step) Semitone() int {
	return stepSemitones[s]
}

// Index is the position of the step in C D E F G A B.
func (s Step) Index() int {
	return stepIndexes[s]
}

type Pitch struct {
	Step   Step `json:"step"`
	Alter  int  `json:"alter"`
	Octave int  `json:"octave"`
}

func (p Pitch) MIDINumber() int {
	return (p.Octave+1)*12 + p.Step.Semitone() + p.Alter
}

// Frequency in Hz, equal temperament with A4 = 440.
func (p Pitch) Frequency() float64 {
	return 440 * math.Pow(2, float64(p.MIDINumber()-69)/12)
}

// DiatonicIndex counts white-key steps from C0, so C4 is 28 and F5 is 38.
func (p Pitch) DiatonicIndex() int {
	return p.Octave*7 + p.Step.Index()
}

func (p Pitch) DisplayName() string {
	return fmt.Sprintf("%s%s%d", strings.ToUpper(string(p.Step)), accidentalGlyph(p.Alter), p.Octave)
}

func (p Pitch) String() string {
	return p.DisplayName()
}

func accidentalGlyph(alter int) string {
	switch alter {
	case 1:
		return "♯"
	case -1:
		return "♭"
	case 2:
		return "𝄪"
	case -2:
		return "𝄫"
	}
	return ""
}
