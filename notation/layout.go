package notation

import "github.com/jsphweid/choirdex/model"

// LayoutNote is a positioned note, chord or rest. X is the notehead centre.
type LayoutNote struct {
	X            float64        `json:"x"`
	Ys           []float64      `json:"ys"`
	Type         model.NoteType `json:"noteType"`
	IsRest       bool           `json:"isRest"`
	StemUp       bool           `json:"stemUp"`
	Accidentals  []int          `json:"accidentals"`
	LyricText    string         `json:"lyricText,omitempty"`
	LedgerLineYs []float64      `json:"ledgerLineYs"`
	BeatPosition float64        `json:"beatPosition"`
	Duration     float64        `json:"duration"`
}

func (n LayoutNote) IsChord() bool {
	return len(n.Ys) > 1
}

// Y is the first notehead, or the rest position.
func (n LayoutNote) Y() float64 {
	if len(n.Ys) == 0 {
		return 0
	}
	return n.Ys[0]
}

type LayoutMeasure struct {
	X         float64      `json:"x"`
	Width     float64      `json:"width"`
	Number    int          `json:"number"`
	Notes     []LayoutNote `json:"notes"`
	StartBeat float64      `json:"startBeat"`
	Duration  float64      `json:"duration"`
}

func (m LayoutMeasure) EndX() float64 {
	return m.X + m.Width
}

// LayoutLine is one system.
type LayoutLine struct {
	Measures     []LayoutMeasure `json:"measures"`
	StartBeat    float64         `json:"startBeat"`
	EndBeat      float64         `json:"endBeat"`
	LeadingWidth float64         `json:"leadingWidth"`
	KeySignature []int           `json:"keySignature,omitempty"`
}

// BeatPosition turns an x on this line into a beat. It reports false when x
// falls outside the measures of the line.
func (l LayoutLine) BeatPosition(x float64) (float64, bool) {
	if len(l.Measures) == 0 {
		return 0, false
	}
	if x < l.Measures[0].X || x > l.Measures[len(l.Measures)-1].EndX() {
		return 0, false
	}

	for _, m := range l.Measures {
		if x < m.X || x > m.EndX() {
			continue
		}
		return m.beatAt(x), true
	}
	return 0, false
}

// beatAt interpolates between noteheads. The first interval reaches back to
// the barline and the last one forward to the next barline.
func (m LayoutMeasure) beatAt(x float64) float64 {
	if len(m.Notes) == 0 {
		return interpolate(x, m.X, m.EndX(), m.StartBeat, m.StartBeat+m.Duration)
	}

	first := m.Notes[0]
	if x <= first.X {
		return interpolate(x, m.X, first.X, m.StartBeat, first.BeatPosition)
	}
	for i := 0; i < len(m.Notes)-1; i++ {
		a, b := m.Notes[i], m.Notes[i+1]
		if x >= a.X && x < b.X {
			return interpolate(x, a.X, b.X, a.BeatPosition, b.BeatPosition)
		}
	}
	last := m.Notes[len(m.Notes)-1]
	return interpolate(x, last.X, m.EndX(), last.BeatPosition, m.StartBeat+m.Duration)
}

func interpolate(x, x0, x1, b0, b1 float64) float64 {
	if x1 <= x0 {
		return b0
	}
	return b0 + (x-x0)/(x1-x0)*(b1-b0)
}

// NotationLayout is the layout of one part.
type NotationLayout struct {
	Lines    []LayoutLine  `json:"lines"`
	Geometry StaffGeometry `json:"geometry"`
}

// LineIndex finds the line that contains beat. Beats past the end map to
// the last line.
func (l NotationLayout) LineIndex(beat float64) (int, bool) {
	for i, line := range l.Lines {
		if beat >= line.StartBeat && beat < line.EndBeat {
			return i, true
		}
	}
	if len(l.Lines) > 0 && beat >= l.Lines[len(l.Lines)-1].EndBeat {
		return len(l.Lines) - 1, true
	}
	return 0, false
}

func (l NotationLayout) MeasureCount() int {
	count := 0
	for _, line := range l.Lines {
		count += len(line.Measures)
	}
	return count
}
