package notation

import (
	"testing"

	"github.com/jsphweid/choirdex/model"
	"github.com/stretchr/testify/assert"
)

func p(step model.Step, octave int) model.Pitch {
	return model.Pitch{Step: step, Octave: octave}
}

var (
	treble = NewStaffGeometry(model.TrebleClef, 0)
	bass   = NewStaffGeometry(model.BassClef, 0)
	tenor  = NewStaffGeometry(model.TrebleClef, 1)
)

func TestStaffLines(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(38, treble.TopLineIndex())
	assert.Equal(30, treble.BottomLineIndex())
	assert.Equal(34, treble.MiddleLineIndex())
	assert.Equal(26, bass.TopLineIndex())
	assert.Equal(18, bass.BottomLineIndex())

	assert.Equal(32.0, treble.StaffHeight())
	wide := treble
	wide.StaffSpacing = 10
	assert.Equal(40.0, wide.StaffHeight())

	for i, expected := range []float64{0, 8, 16, 24, 32} {
		assert.Equal(expected, treble.LineY(i))
	}
	assert.Equal(16.0, treble.RestY())
}

func TestVerticalPositions(t *testing.T) {
	cases := []struct {
		name     string
		geometry StaffGeometry
		pitch    model.Pitch
		y        float64
	}{
		{"treble top line F5", treble, p(model.StepF, 5), 0},
		{"treble bottom line E4", treble, p(model.StepE, 4), 32},
		{"treble middle C", treble, p(model.StepC, 4), 40},
		{"bass top line A3", bass, p(model.StepA, 3), 0},
		{"bass bottom line G2", bass, p(model.StepG, 2), 32},
		{"above the staff", treble, p(model.StepA, 5), -8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.y, c.geometry.Y(c.pitch))
		})
	}
}

func TestOctaveTransposition(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(treble.Y(p(model.StepC, 4)), tenor.Y(p(model.StepC, 3)))
	assert.Equal(35, tenor.DisplayIndex(p(model.StepC, 4)))
	// written C4 sits on a ledger line, sounding C3 for tenors does too
	assert.Len(tenor.LedgerLines(p(model.StepC, 3)), 1)
	assert.False(tenor.StemUp(p(model.StepC, 4)))
	assert.True(treble.StemUp(p(model.StepC, 4)))
}

func TestLedgerLines(t *testing.T) {
	cases := []struct {
		name     string
		geometry StaffGeometry
		pitch    model.Pitch
		ys       []float64
	}{
		{"middle C", treble, p(model.StepC, 4), []float64{40}},
		{"B3 hangs under middle C line", treble, p(model.StepB, 3), []float64{40}},
		{"A3", treble, p(model.StepA, 3), []float64{40, 48}},
		{"D4 just under the staff", treble, p(model.StepD, 4), []float64{}},
		{"G4 on the staff", treble, p(model.StepG, 4), []float64{}},
		{"G5 just above", treble, p(model.StepG, 5), []float64{}},
		{"A5", treble, p(model.StepA, 5), []float64{-8}},
		{"C6", treble, p(model.StepC, 6), []float64{-8, -16}},
		{"middle C in bass clef", bass, p(model.StepC, 4), []float64{-8}},
		{"E2 in bass clef", bass, p(model.StepE, 2), []float64{40}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.ys, c.geometry.LedgerLines(c.pitch))
		})
	}
}

func TestStemDirection(t *testing.T) {
	assert := assert.New(t)
	assert.True(treble.StemUp(p(model.StepA, 4)))
	assert.False(treble.StemUp(p(model.StepB, 4)), "middle line points down")
	assert.False(treble.StemUp(p(model.StepD, 5)))
	assert.True(bass.StemUp(p(model.StepC, 3)))
	assert.False(bass.StemUp(p(model.StepD, 3)))
}

func TestChordStemDirection(t *testing.T) {
	assert := assert.New(t)
	assert.False(treble.ChordStemUp([]model.Pitch{p(model.StepA, 5), p(model.StepC, 6)}))
	assert.True(treble.ChordStemUp([]model.Pitch{p(model.StepC, 4), p(model.StepE, 4)}))
	// G4 and D5 are both two steps from B4
	assert.True(treble.ChordStemUp([]model.Pitch{p(model.StepD, 5), p(model.StepG, 4)}))
	// order of pitches does not matter
	assert.False(treble.ChordStemUp([]model.Pitch{p(model.StepF, 5), p(model.StepA, 4)}))
	assert.Equal(treble.StemUp(p(model.StepA, 4)), treble.ChordStemUp([]model.Pitch{p(model.StepA, 4)}))
}

func TestKeySignaturePositions(t *testing.T) {
	cases := []struct {
		name      string
		geometry  StaffGeometry
		fifths    int
		positions []int
	}{
		{"C major", treble, 0, []int{}},
		{"G major", treble, 1, []int{38}},
		{"D major", treble, 2, []int{38, 35}},
		{"B flat major", treble, -2, []int{34, 37}},
		{"C sharp major", treble, 7, []int{38, 35, 39, 36, 33, 37, 34}},
		{"C flat major", treble, -7, []int{34, 37, 33, 36, 32, 35, 31}},
		{"G major bass clef", bass, 1, []int{24}},
		{"E flat major bass clef", bass, -3, []int{20, 23, 19}},
		{"out of range", treble, 9, []int{38, 35, 39, 36, 33, 37, 34}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.positions, c.geometry.KeySignaturePositions(c.fifths))
		})
	}
}

func TestGeometryForPart(t *testing.T) {
	g := GeometryForPart(model.Part{Type: model.Tenor2}, 0, DefaultSpacing())
	assert.Equal(t, model.TrebleClef, g.Clef)
	assert.Equal(t, 1, g.OctaveTransposition)
	assert.Equal(t, DefaultStaffSpacing, g.StaffSpacing)

	g = GeometryForPart(model.Part{Type: model.Bass1}, 12, DefaultSpacing())
	assert.Equal(t, model.BassClef, g.Clef)
	assert.Equal(t, 0, g.OctaveTransposition)
	assert.Equal(t, 12.0, g.StaffSpacing)
}
