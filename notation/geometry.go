package notation

import (
	"github.com/jsphweid/choirdex/model"
)

// Spacing holds the horizontal constants of the layout, in points.
type Spacing struct {
	MinNoteSpacing     float64 `yaml:"min_note_spacing" json:"minNoteSpacing"`
	BaseNoteWidth      float64 `yaml:"base_note_width" json:"baseNoteWidth"`
	ClefWidth          float64 `yaml:"clef_width" json:"clefWidth"`
	KeySignatureWidth  float64 `yaml:"key_signature_width" json:"keySignatureWidth"`
	TimeSignatureWidth float64 `yaml:"time_signature_width" json:"timeSignatureWidth"`
	MeasurePadding     float64 `yaml:"measure_padding" json:"measurePadding"`
}

func DefaultSpacing() Spacing {
	return Spacing{
		MinNoteSpacing:     20,
		BaseNoteWidth:      40,
		ClefWidth:          32,
		KeySignatureWidth:  24,
		TimeSignatureWidth: 24,
		MeasurePadding:     8,
	}
}

const DefaultStaffSpacing = 8.0

const (
	trebleTopLine = 38 // F5
	bassTopLine   = 26 // A3
)

// zigzag order of key signature accidentals on the treble staff
var (
	trebleSharps = []int{38, 35, 39, 36, 33, 37, 34}
	trebleFlats  = []int{34, 37, 33, 36, 32, 35, 31}
)

// StaffGeometry maps pitches to vertical staff positions. Y grows downward
// from the top staff line.
type StaffGeometry struct {
	StaffSpacing        float64        `json:"staffSpacing"`
	Clef                model.ClefType `json:"clef"`
	OctaveTransposition int            `json:"octaveTransposition"`
	Spacing             Spacing        `json:"spacing"`
}

func NewStaffGeometry(clef model.ClefType, octaveTransposition int) StaffGeometry {
	return StaffGeometry{
		StaffSpacing:        DefaultStaffSpacing,
		Clef:                clef,
		OctaveTransposition: octaveTransposition,
		Spacing:             DefaultSpacing(),
	}
}

// GeometryForPart picks the clef and octave transposition of the part's voice.
func GeometryForPart(part model.Part, staffSpacing float64, spacing Spacing) StaffGeometry {
	g := NewStaffGeometry(part.Clef(), part.OctaveTransposition())
	if staffSpacing > 0 {
		g.StaffSpacing = staffSpacing
	}
	g.Spacing = spacing
	return g
}

func (g StaffGeometry) StaffHeight() float64 {
	return g.StaffSpacing * 4
}

func (g StaffGeometry) TopLineIndex() int {
	if g.Clef == model.BassClef {
		return bassTopLine
	}
	return trebleTopLine
}

func (g StaffGeometry) BottomLineIndex() int {
	return g.TopLineIndex() - 8
}

func (g StaffGeometry) MiddleLineIndex() int {
	return g.TopLineIndex() - 4
}

// DisplayIndex is the diatonic index the pitch is written at.
func (g StaffGeometry) DisplayIndex(p model.Pitch) int {
	return p.DiatonicIndex() + 7*g.OctaveTransposition
}

func (g StaffGeometry) YForIndex(index int) float64 {
	return float64(g.TopLineIndex()-index) * g.StaffSpacing / 2
}

func (g StaffGeometry) Y(p model.Pitch) float64 {
	return g.YForIndex(g.DisplayIndex(p))
}

// LedgerLines returns the y of every ledger line the pitch needs, nearest
// the staff first.
func (g StaffGeometry) LedgerLines(p model.Pitch) []float64 {
	index := g.DisplayIndex(p)
	top, bottom := g.TopLineIndex(), g.BottomLineIndex()
	res := []float64{}
	switch {
	case index > top:
		for i := 1; i <= (index-top)/2; i++ {
			res = append(res, g.YForIndex(top+2*i))
		}
	case index < bottom:
		for i := 1; i <= (bottom-index)/2; i++ {
			res = append(res, g.YForIndex(bottom-2*i))
		}
	}
	return res
}

func (g StaffGeometry) StemUp(p model.Pitch) bool {
	return g.DisplayIndex(p) < g.MiddleLineIndex()
}

// ChordStemUp follows whichever outer note sits farther from the middle
// line. Equal distances point up.
func (g StaffGeometry) ChordStemUp(pitches []model.Pitch) bool {
	if len(pitches) == 0 {
		return false
	}
	if len(pitches) == 1 {
		return g.StemUp(pitches[0])
	}
	middle := g.YForIndex(g.MiddleLineIndex())
	top, bottom := g.Y(pitches[0]), g.Y(pitches[0])
	for _, p := range pitches[1:] {
		y := g.Y(p)
		if y < top {
			top = y
		}
		if y > bottom {
			bottom = y
		}
	}
	return abs(bottom-middle) >= abs(top-middle)
}

// LineY is the y of staff line i, 0 being the top line.
func (g StaffGeometry) LineY(i int) float64 {
	return float64(i) * g.StaffSpacing
}

func (g StaffGeometry) RestY() float64 {
	return g.StaffHeight() / 2
}

// KeySignaturePositions returns the diatonic indexes of the accidentals of a
// key signature, in drawing order.
func (g StaffGeometry) KeySignaturePositions(fifths int) []int {
	table := trebleSharps
	count := fifths
	if fifths < 0 {
		table = trebleFlats
		count = -fifths
	}
	if count > len(table) {
		count = len(table)
	}
	shift := 0
	if g.Clef == model.BassClef {
		// same shape two octaves down
		shift = 14
	}
	res := make([]int, count)
	for i := 0; i < count; i++ {
		res[i] = table[i] - shift
	}
	return res
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
