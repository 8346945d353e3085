package notation

import (
	"testing"

	"github.com/jsphweid/choirdex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quarter(step model.Step, octave int) model.Note {
	return model.Note{
		Pitches:  []model.Pitch{p(step, octave)},
		Duration: 1,
		Type:     model.Quarter,
	}
}

func quarterMeasure(number int) model.Measure {
	return model.Measure{Number: number, Notes: []model.Note{
		quarter(model.StepC, 5), quarter(model.StepD, 5), quarter(model.StepE, 5), quarter(model.StepF, 5),
	}}
}

func partOf(count int) model.Part {
	part := model.Part{Name: "Soprano", Type: model.Soprano}
	for i := 1; i <= count; i++ {
		part.Measures = append(part.Measures, quarterMeasure(i))
	}
	return part
}

func engine(width float64) Engine {
	return NewEngine(treble, width)
}

func TestLayoutEmptyPart(t *testing.T) {
	layout := engine(800).Layout(model.Part{Type: model.Alto})
	assert.Empty(t, layout.Lines)
	assert.Equal(t, 0, layout.MeasureCount())
	_, ok := layout.LineIndex(0)
	assert.False(t, ok)
}

func TestLayoutSingleMeasure(t *testing.T) {
	layout := engine(400).Layout(partOf(1))
	require.Len(t, layout.Lines, 1)

	line := layout.Lines[0]
	assert := assert.New(t)
	assert.Equal(80.0, line.LeadingWidth)
	require.Len(t, line.Measures, 1)

	m := line.Measures[0]
	assert.Equal(80.0, m.X)
	assert.Equal(320.0, m.Width)
	assert.Equal(4.0, m.Duration)

	xs := []float64{}
	for _, n := range m.Notes {
		xs = append(xs, n.X)
	}
	assert.Equal([]float64{126, 202, 278, 354}, xs)
	assert.Equal([]float64{0, 1, 2, 3}, []float64{
		m.Notes[0].BeatPosition, m.Notes[1].BeatPosition, m.Notes[2].BeatPosition, m.Notes[3].BeatPosition,
	})
}

func TestLayoutBreaksLines(t *testing.T) {
	assert := assert.New(t)

	layout := engine(300).Layout(partOf(8))
	assert.Greater(len(layout.Lines), 1)
	assert.Equal(8, layout.MeasureCount())
	for _, line := range layout.Lines {
		last := line.Measures[len(line.Measures)-1]
		assert.InDelta(300.0, last.EndX(), 1e-9)
	}
	assert.Equal(80.0, layout.Lines[0].LeadingWidth)
	assert.Equal(32.0, layout.Lines[1].LeadingWidth)

	// narrower than any measure still places one per line
	layout = engine(50).Layout(partOf(3))
	assert.Len(layout.Lines, 3)
	for _, line := range layout.Lines {
		assert.Len(line.Measures, 1)
	}

	layout = engine(500).Layout(partOf(6))
	assert.Equal(6, layout.MeasureCount())
	numbers := []int{}
	for _, line := range layout.Lines {
		assert.Len(line.Measures, 2)
		for _, m := range line.Measures {
			numbers = append(numbers, m.Number)
		}
	}
	assert.Equal([]int{1, 2, 3, 4, 5, 6}, numbers)
}

func TestLayoutBeatsAreContinuous(t *testing.T) {
	layout := engine(500).Layout(partOf(6))
	require.Len(t, layout.Lines, 3)

	assert := assert.New(t)
	var beat float64
	for _, line := range layout.Lines {
		assert.Equal(beat, line.StartBeat)
		for _, m := range line.Measures {
			assert.Equal(beat, m.StartBeat)
			beat += m.Duration
		}
		assert.Equal(beat, line.EndBeat)
	}

	cases := []struct {
		beat float64
		line int
	}{
		{0, 0}, {2, 0}, {7.9, 0}, {8, 1}, {16, 2}, {23, 2}, {100, 2},
	}
	for _, c := range cases {
		i, ok := layout.LineIndex(c.beat)
		assert.True(ok)
		assert.Equal(c.line, i, "beat %v", c.beat)
	}
	_, ok := layout.LineIndex(-1)
	assert.False(ok)
}

func TestLayoutMeasureStartBeats(t *testing.T) {
	layout := engine(800).Layout(partOf(3))
	require.Len(t, layout.Lines, 1)

	assert := assert.New(t)
	for i, m := range layout.Lines[0].Measures {
		assert.Equal(float64(i*4), m.StartBeat)
		prev := m.X
		for _, n := range m.Notes {
			assert.Greater(n.X, prev)
			assert.Less(n.X, m.EndX())
			prev = n.X
		}
	}
}

func TestLayoutSharesExtraSpaceByDuration(t *testing.T) {
	part := model.Part{Type: model.Soprano, Measures: []model.Measure{
		quarterMeasure(1),
		{Number: 2, Notes: []model.Note{quarter(model.StepG, 4), quarter(model.StepA, 4)}},
	}}
	line := engine(800).Layout(part).Lines[0]
	require.Len(t, line.Measures, 2)

	assert := assert.New(t)
	// 448 points spare, split 4:2
	assert.InDelta(176+448*4.0/6, line.Measures[0].Width, 1e-9)
	assert.InDelta(96+448*2.0/6, line.Measures[1].Width, 1e-9)
	assert.InDelta(800, line.Measures[1].EndX(), 1e-9)
	assert.Equal(line.Measures[0].EndX(), line.Measures[1].X)
}

func TestLayoutKeySignatureOnFirstLine(t *testing.T) {
	part := partOf(6)
	part.Measures[0].KeySignature = &model.KeySignature{Fifths: 2, Mode: model.Major}

	layout := engine(500).Layout(part)
	assert.Equal(t, []int{38, 35}, layout.Lines[0].KeySignature)
	assert.Nil(t, layout.Lines[1].KeySignature)
}

func TestLayoutEmptyAndZeroDurationMeasures(t *testing.T) {
	grace := model.Note{Pitches: []model.Pitch{p(model.StepG, 4)}, Type: model.Quarter}
	part := model.Part{Type: model.Soprano, Measures: []model.Measure{
		{Number: 1, Notes: []model.Note{grace, grace}},
		{Number: 2},
	}}
	line := engine(400).Layout(part).Lines[0]

	assert := assert.New(t)
	zero := line.Measures[0]
	assert.Equal(96.0, zero.Width, "no duration, no extra space")
	assert.Equal(108.0, zero.Notes[0].X)
	assert.Equal(148.0, zero.Notes[1].X)

	empty := line.Measures[1]
	assert.Equal(36.0, empty.Width)
	assert.Empty(empty.Notes)
	assert.Equal(176.0, empty.X)
}

func TestLayoutRestsAndLyrics(t *testing.T) {
	sung := quarter(model.StepA, 4)
	sung.Lyric = &model.Lyric{Text: "Glo", Syllabic: model.Begin}
	part := model.Part{Type: model.Soprano, Measures: []model.Measure{{Number: 1, Notes: []model.Note{
		{Pitches: []model.Pitch{}, Duration: 1, Type: model.Quarter, IsRest: true},
		sung,
	}}}}

	notes := engine(400).Layout(part).Lines[0].Measures[0].Notes
	require.Len(t, notes, 2)

	assert := assert.New(t)
	assert.True(notes[0].IsRest)
	assert.Equal(16.0, notes[0].Y())
	assert.Empty(notes[0].LedgerLineYs)
	assert.Equal("", notes[0].LyricText)

	assert.False(notes[1].IsRest)
	assert.Equal("Glo", notes[1].LyricText)
	assert.Equal(20.0, notes[1].Y())
	assert.True(notes[1].StemUp)
}

func TestLayoutChords(t *testing.T) {
	high := model.Note{Pitches: []model.Pitch{p(model.StepA, 5), p(model.StepC, 6)}, Duration: 1, Type: model.Quarter}
	low := model.Note{Pitches: []model.Pitch{p(model.StepC, 4), p(model.StepE, 4)}, Duration: 1, Type: model.Quarter}
	colored := model.Note{Pitches: []model.Pitch{
		p(model.StepC, 4), {Step: model.StepE, Alter: -1, Octave: 4}, {Step: model.StepG, Alter: 1, Octave: 4},
	}, Duration: 2, Type: model.Half}
	part := model.Part{Type: model.Soprano, Measures: []model.Measure{{Number: 1, Notes: []model.Note{high, low, colored}}}}

	notes := engine(400).Layout(part).Lines[0].Measures[0].Notes
	require.Len(t, notes, 3)

	assert := assert.New(t)
	assert.True(notes[0].IsChord())
	assert.Equal([]float64{-8, -16}, notes[0].Ys)
	assert.False(notes[0].StemUp)
	assert.Equal([]float64{-16, -8}, notes[0].LedgerLineYs)

	assert.True(notes[1].StemUp)
	assert.Equal([]float64{40}, notes[1].LedgerLineYs)

	assert.Equal([]int{0, -1, 1}, notes[2].Accidentals)
	assert.Equal(model.Half, notes[2].Type)
	assert.Len(notes[2].Ys, 3)
}

func TestLayoutTenorReadsOctaveTreble(t *testing.T) {
	part := model.Part{Type: model.Tenor, Measures: []model.Measure{{Number: 1, Notes: []model.Note{
		quarter(model.StepC, 3),
	}}}}
	layout := LayoutPart(part, 400)
	assert.Equal(t, 1, layout.Geometry.OctaveTransposition)
	assert.Equal(t, 40.0, layout.Lines[0].Measures[0].Notes[0].Y())
}

func TestBeatPosition(t *testing.T) {
	line := engine(400).Layout(partOf(1)).Lines[0]

	cases := []struct {
		x    float64
		beat float64
	}{
		{126, 0},
		{164, 0.5},
		{202, 1},
		{354, 3},
		{400, 4},
		{90, 0},
	}
	for _, c := range cases {
		beat, ok := line.BeatPosition(c.x)
		assert.True(t, ok)
		assert.InDelta(t, c.beat, beat, 1e-9, "x %v", c.x)
	}

	for _, x := range []float64{10000, -100, 50} {
		_, ok := line.BeatPosition(x)
		assert.False(t, ok, "x %v", x)
	}
}

func TestBeatPositionEmptyMeasure(t *testing.T) {
	m := LayoutMeasure{X: 100, Width: 40, StartBeat: 8, Duration: 4, Notes: []LayoutNote{}}
	line := LayoutLine{Measures: []LayoutMeasure{m}}
	beat, ok := line.BeatPosition(120)
	assert.True(t, ok)
	assert.Equal(t, 10.0, beat)
}
