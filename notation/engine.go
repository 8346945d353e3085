package notation

import (
	"math"
	"sort"

	"github.com/jsphweid/choirdex/model"
)

// Engine lays a part out in lines no wider than Width.
type Engine struct {
	Geometry StaffGeometry
	Width    float64
}

func NewEngine(geometry StaffGeometry, width float64) Engine {
	return Engine{Geometry: geometry, Width: width}
}

// Layout positions every measure of part. An empty part has no lines.
func (e Engine) Layout(part model.Part) NotationLayout {
	res := NotationLayout{Lines: []LayoutLine{}, Geometry: e.Geometry}
	if len(part.Measures) == 0 {
		return res
	}

	widths := make([]float64, len(part.Measures))
	for i, m := range part.Measures {
		widths[i] = e.minimumWidth(m)
	}

	var key model.KeySignature
	if k := part.Measures[0].KeySignature; k != nil {
		key = *k
	}

	var beat float64
	for start := 0; start < len(part.Measures); {
		leading := e.Geometry.Spacing.ClefWidth
		first := len(res.Lines) == 0
		if first {
			leading += e.Geometry.Spacing.KeySignatureWidth + e.Geometry.Spacing.TimeSignatureWidth
		}

		used := leading
		end := start
		for end < len(part.Measures) {
			if used+widths[end] > e.Width && end > start {
				break
			}
			used += widths[end]
			end++
		}

		line := e.layoutLine(part.Measures[start:end], widths[start:end], leading, beat)
		if first {
			line.KeySignature = e.Geometry.KeySignaturePositions(key.Fifths)
		}
		res.Lines = append(res.Lines, line)
		beat = line.EndBeat
		start = end
	}
	return res
}

// LayoutPart builds the geometry for the part's voice and lays it out.
func LayoutPart(part model.Part, width float64) NotationLayout {
	g := GeometryForPart(part, DefaultStaffSpacing, DefaultSpacing())
	return NewEngine(g, width).Layout(part)
}

func (e Engine) minimumWidth(m model.Measure) float64 {
	s := e.Geometry.Spacing
	if len(m.Notes) == 0 {
		return 2*s.MeasurePadding + s.MinNoteSpacing
	}
	width := 2 * s.MeasurePadding
	for _, n := range m.Notes {
		width += math.Max(s.MinNoteSpacing, n.Type.RelativeDuration()*s.BaseNoteWidth)
	}
	return width
}

func (e Engine) layoutLine(measures []model.Measure, widths []float64, leading, startBeat float64) LayoutLine {
	var minTotal, durationTotal float64
	for i, m := range measures {
		minTotal += widths[i]
		durationTotal += m.TotalDuration()
	}
	extra := math.Max(0, e.Width-leading-minTotal)

	line := LayoutLine{StartBeat: startBeat, LeadingWidth: leading}
	x := leading
	beat := startBeat
	for i, m := range measures {
		width := widths[i]
		if durationTotal > 0 {
			width += extra * m.TotalDuration() / durationTotal
		}
		line.Measures = append(line.Measures, LayoutMeasure{
			X:         x,
			Width:     width,
			Number:    m.Number,
			Notes:     e.layoutNotes(m, x, width, beat),
			StartBeat: beat,
			Duration:  m.TotalDuration(),
		})
		x += width
		beat += m.TotalDuration()
	}
	line.EndBeat = beat
	return line
}

func (e Engine) layoutNotes(m model.Measure, x, width, startBeat float64) []LayoutNote {
	res := []LayoutNote{}
	if len(m.Notes) == 0 {
		return res
	}

	padding := e.Geometry.Spacing.MeasurePadding
	content := width - 2*padding
	contentStart := x + padding
	total := m.TotalDuration()

	count := float64(len(m.Notes))
	var elapsed float64
	for i, n := range m.Notes {
		var fraction, slot float64
		if total > 0 {
			fraction = elapsed / total
			slot = content * n.Duration / total
		} else {
			fraction = float64(i) / count
			slot = content / count
		}
		noteX := contentStart + fraction*content + slot/2
		res = append(res, e.layoutNote(n, noteX, startBeat+elapsed))
		elapsed += n.Duration
	}
	return res
}

func (e Engine) layoutNote(n model.Note, x, beat float64) LayoutNote {
	res := LayoutNote{
		X:            x,
		Type:         n.Type,
		IsRest:       n.IsRest || len(n.Pitches) == 0,
		BeatPosition: beat,
		Duration:     n.Duration,
		Ys:           []float64{},
		Accidentals:  []int{},
		LedgerLineYs: []float64{},
	}
	if n.Lyric != nil {
		res.LyricText = n.Lyric.Text
	}
	if res.IsRest {
		res.Ys = append(res.Ys, e.Geometry.RestY())
		return res
	}

	ledger := map[float64]bool{}
	for _, p := range n.Pitches {
		res.Ys = append(res.Ys, e.Geometry.Y(p))
		res.Accidentals = append(res.Accidentals, p.Alter)
		for _, y := range e.Geometry.LedgerLines(p) {
			if !ledger[y] {
				ledger[y] = true
				res.LedgerLineYs = append(res.LedgerLineYs, y)
			}
		}
	}
	sort.Float64s(res.LedgerLineYs)
	res.StemUp = e.Geometry.ChordStemUp(n.Pitches)
	return res
}
