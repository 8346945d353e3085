package musicxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jsphweid/choirdex/model"
	"golang.org/x/net/html/charset"
)

type partEntry struct {
	id   string
	name string
}

type measureBuilder struct {
	number        int
	notes         []model.Note
	keySignature  *model.KeySignature
	timeSignature *model.TimeSignature
}

func (b *measureBuilder) build() model.Measure {
	notes := b.notes
	if notes == nil {
		notes = []model.Note{}
	}
	return model.Measure{
		Number:        b.number,
		Notes:         notes,
		KeySignature:  b.keySignature,
		TimeSignature: b.timeSignature,
	}
}

// scratch state for the <note> being read
type noteState struct {
	step     model.Step
	hasStep  bool
	alter    int
	octave   int
	duration int
	noteType model.NoteType
	isRest   bool
	isTied   bool
	isChord  bool
	isGrace  bool
	voice    string
	lyric    *model.Lyric
	dynamic  *model.Dynamic
}

func newNoteState() noteState {
	return noteState{octave: 4, noteType: model.Quarter}
}

// parser holds everything for a single document. It is never reused.
type parser struct {
	stack []element
	text  strings.Builder

	title         string
	composer      string
	composerTyped bool
	creatorType   string
	keySignature  model.KeySignature
	timeSignature model.TimeSignature
	tempo         int

	partList    []partEntry
	inPartList  bool
	scorePartID string
	partName    string

	activePart     string
	measureNumber  int
	closedMeasures int
	measures       map[string][]*measureBuilder
	divisions      map[string]int
	primaryVoice   map[string]string
	pendingDynamic map[string]*model.Dynamic
	pendingKey     *model.KeySignature
	pendingTime    *model.TimeSignature

	note      noteState
	inLyric   bool
	lyricSeen bool
	sawRoot   bool
}

func newParser() *parser {
	return &parser{
		keySignature:   model.DefaultKeySignature,
		timeSignature:  model.DefaultTimeSignature,
		tempo:          model.DefaultTempo,
		measures:       make(map[string][]*measureBuilder),
		divisions:      make(map[string]int),
		primaryVoice:   make(map[string]string),
		pendingDynamic: make(map[string]*model.Dynamic),
		note:           newNoteState(),
	}
}

// Parse reads a score-partwise document.
func Parse(data []byte) (*model.Score, error) {
	return ParseReader(bytes.NewReader(data))
}

func ParseReader(r io.Reader) (*model.Score, error) {
	p := newParser()
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, model.ParsingFailed(err.Error())
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.sawRoot = true
			p.startElement(t)
		case xml.EndElement:
			p.endElement()
		case xml.CharData:
			p.text.Write(t)
		}
	}

	if !p.sawRoot {
		return nil, model.ParsingFailed("document has no root element")
	}
	return p.buildScore()
}

// ParseFile reads a .musicxml/.xml file or a compressed .mxl archive.
func ParseFile(path string) (*model.Score, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, model.FileNotFound(path)
	}
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseBytes accepts plain MusicXML or a compressed .mxl archive.
func ParseBytes(data []byte) (*model.Score, error) {
	if isCompressed(data) {
		return ParseCompressed(data)
	}
	return Parse(data)
}

func (p *parser) parent() element {
	if len(p.stack) < 2 {
		return elUnknown
	}
	return p.stack[len(p.stack)-2]
}

func (p *parser) within(el element) bool {
	for _, e := range p.stack {
		if e == el {
			return true
		}
	}
	return false
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (p *parser) startElement(t xml.StartElement) {
	el := lookupElement(t.Name.Local)
	p.stack = append(p.stack, el)
	p.text.Reset()

	if p.parent() == elDynamics {
		p.startDynamic(t.Name.Local)
		return
	}

	switch el {
	case elPartList:
		p.inPartList = true
	case elScorePart:
		p.scorePartID = attr(t, "id")
		p.partName = ""
	case elPart:
		p.activePart = attr(t, "id")
		p.measureNumber = 0
	case elMeasure:
		p.startMeasure(attr(t, "number"))
	case elNote:
		p.note = newNoteState()
		p.lyricSeen = false
	case elRest:
		p.note.isRest = true
	case elChord:
		p.note.isChord = true
	case elGrace:
		p.note.isGrace = true
	case elTie:
		if attr(t, "type") == "start" {
			p.note.isTied = true
		}
	case elLyric:
		if !p.lyricSeen {
			p.inLyric = true
			p.note.lyric = nil
		}
	case elWedge:
		p.startWedge(attr(t, "type"))
	case elSound:
		if v, err := strconv.ParseFloat(attr(t, "tempo"), 64); err == nil && v > 0 {
			p.tempo = int(v)
		}
	case elCreator:
		p.creatorType = attr(t, "type")
	}
}

func (p *parser) startMeasure(number string) {
	if n, err := strconv.Atoi(strings.TrimSpace(number)); err == nil {
		p.measureNumber = n
	} else {
		p.measureNumber++
	}
	p.pendingKey = nil
	p.pendingTime = nil

	builders := p.measures[p.activePart]
	if len(builders) > 0 && builders[len(builders)-1].number == p.measureNumber {
		return
	}
	p.measures[p.activePart] = append(builders, &measureBuilder{number: p.measureNumber})
}

func (p *parser) startDynamic(name string) {
	d, ok := model.ParseDynamic(name)
	if !ok || d == model.Crescendo || d == model.Decrescendo {
		return
	}
	if p.within(elNote) {
		p.note.dynamic = &d
		return
	}
	p.pendingDynamic[p.activePart] = &d
}

func (p *parser) startWedge(kind string) {
	var d model.Dynamic
	switch kind {
	case "crescendo":
		d = model.Crescendo
	case "diminuendo", "decrescendo":
		d = model.Decrescendo
	default:
		return
	}
	p.pendingDynamic[p.activePart] = &d
}

func (p *parser) endElement() {
	if len(p.stack) == 0 {
		return
	}
	text := strings.TrimSpace(p.text.String())
	p.handleEnd(p.stack[len(p.stack)-1], text)
	p.stack = p.stack[:len(p.stack)-1]
	p.text.Reset()
}

func (p *parser) handleEnd(el element, text string) {
	switch el {
	case elPartName:
		if p.inPartList {
			p.partName = text
		}
	case elScorePart:
		p.endScorePart()
	case elPartList:
		p.inPartList = false
	case elFifths:
		p.endFifths(text)
	case elMode:
		p.endMode(text)
	case elBeats:
		p.endBeats(text)
	case elBeatType:
		p.endBeatType(text)
	case elDivisions:
		if v, err := strconv.Atoi(text); err == nil && v > 0 {
			p.divisions[p.activePart] = v
		}
	case elStep:
		if s, ok := model.ParseStep(text); ok {
			p.note.step = s
			p.note.hasStep = true
		}
	case elAlter:
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			p.note.alter = int(math.Round(v))
		}
	case elOctave:
		if v, err := strconv.Atoi(text); err == nil {
			p.note.octave = v
		} else {
			p.note.octave = 4
		}
	case elDuration:
		if p.parent() == elNote {
			p.note.duration, _ = strconv.Atoi(text)
		}
	case elVoice:
		if p.parent() == elNote {
			p.note.voice = text
		}
	case elType:
		if p.parent() == elNote {
			p.note.noteType = model.ParseNoteType(text)
		}
	case elText:
		if p.inLyric && p.parent() == elLyric {
			p.lyricPart().Text = text
		}
	case elSyllabic:
		if p.inLyric && p.parent() == elLyric {
			p.lyricPart().Syllabic = model.ParseSyllabic(text)
		}
	case elLyric:
		if p.inLyric {
			p.inLyric = false
			p.lyricSeen = true
		}
	case elWorkTitle, elMovementTitle:
		if text != "" {
			p.title = text
		}
	case elCreator:
		p.endCreator(text)
	case elNote:
		p.finishNote()
	case elMeasure:
		p.finishMeasure()
	}
}

func (p *parser) lyricPart() *model.Lyric {
	if p.note.lyric == nil {
		p.note.lyric = &model.Lyric{Syllabic: model.Single}
	}
	return p.note.lyric
}

func (p *parser) endScorePart() {
	if p.scorePartID == "" {
		return
	}
	name := p.partName
	if name == "" {
		name = p.scorePartID
	}
	p.partList = append(p.partList, partEntry{id: p.scorePartID, name: name})
	p.scorePartID = ""
}

// signatures declared before the first measure closes, or in measure 1 or a
// pickup, also become the score defaults
func (p *parser) declaresGlobal() bool {
	return p.closedMeasures == 0 || p.measureNumber <= 1
}

func (p *parser) endFifths(text string) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return
	}
	sig := model.KeySignature{Fifths: v, Mode: model.Major}
	p.pendingKey = &sig
	if p.declaresGlobal() {
		p.keySignature = sig
	}
}

func (p *parser) endMode(text string) {
	mode := model.Major
	if text == string(model.Minor) {
		mode = model.Minor
	}
	fifths := p.keySignature.Fifths
	if p.pendingKey != nil {
		fifths = p.pendingKey.Fifths
	}
	sig := model.KeySignature{Fifths: fifths, Mode: mode}
	p.pendingKey = &sig
	if p.declaresGlobal() {
		p.keySignature = sig
	}
}

func (p *parser) endBeats(text string) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return
	}
	beatType := 4
	if p.pendingTime != nil {
		beatType = p.pendingTime.BeatType
	}
	p.pendingTime = &model.TimeSignature{Beats: v, BeatType: beatType}
}

func (p *parser) endBeatType(text string) {
	v, err := strconv.Atoi(text)
	if err != nil || v <= 0 {
		return
	}
	beats := 4
	if p.pendingTime != nil {
		beats = p.pendingTime.Beats
	}
	sig := model.TimeSignature{Beats: beats, BeatType: v}
	p.pendingTime = &sig
	if p.declaresGlobal() {
		p.timeSignature = sig
	}
}

func (p *parser) endCreator(text string) {
	if text == "" {
		return
	}
	if p.creatorType == "composer" {
		p.composer = text
		p.composerTyped = true
	} else if !p.composerTyped && p.composer == "" {
		p.composer = text
	}
	p.creatorType = ""
}

func (p *parser) currentMeasure() *measureBuilder {
	builders := p.measures[p.activePart]
	if len(builders) == 0 {
		b := &measureBuilder{number: p.measureNumber}
		p.measures[p.activePart] = []*measureBuilder{b}
		return b
	}
	return builders[len(builders)-1]
}

func (p *parser) finishNote() {
	n := p.note
	p.note = newNoteState()
	p.inLyric = false

	// grace notes take no time and other voices are not modeled
	if n.isGrace {
		return
	}
	if n.voice != "" {
		primary, ok := p.primaryVoice[p.activePart]
		if !ok {
			p.primaryVoice[p.activePart] = n.voice
		} else if primary != n.voice {
			return
		}
	}

	if n.lyric != nil && n.lyric.Text == "" {
		n.lyric = nil
	}

	divisions := p.divisions[p.activePart]
	if divisions <= 0 {
		divisions = 1
	}

	note := model.Note{
		Pitches:  []model.Pitch{},
		Duration: float64(n.duration) / float64(divisions),
		Type:     n.noteType,
		IsRest:   n.isRest || !n.hasStep,
		IsTied:   n.isTied,
		Lyric:    n.lyric,
		Dynamic:  n.dynamic,
	}
	if !note.IsRest {
		note.Pitches = append(note.Pitches, model.Pitch{Step: n.step, Alter: n.alter, Octave: n.octave})
	}

	m := p.currentMeasure()
	if n.isChord && !note.IsRest && len(m.notes) > 0 {
		prev := &m.notes[len(m.notes)-1]
		if !prev.IsRest {
			prev.Pitches = append(prev.Pitches, note.Pitches...)
			return
		}
	}

	if !note.IsRest && note.Dynamic == nil {
		if d := p.pendingDynamic[p.activePart]; d != nil {
			note.Dynamic = d
			delete(p.pendingDynamic, p.activePart)
		}
	}
	m.notes = append(m.notes, note)
}

func (p *parser) finishMeasure() {
	builders := p.measures[p.activePart]
	if len(builders) > 0 {
		last := builders[len(builders)-1]
		if p.pendingKey != nil {
			last.keySignature = p.pendingKey
		}
		if p.pendingTime != nil {
			last.timeSignature = p.pendingTime
		}
	}
	p.pendingKey = nil
	p.pendingTime = nil
	p.closedMeasures++
}

func (p *parser) buildScore() (*model.Score, error) {
	if len(p.partList) == 0 {
		return nil, model.InvalidMusicXML("No parts found")
	}

	score := model.NewScore()
	if p.title != "" {
		score.Title = p.title
	}
	score.Composer = p.composer
	score.KeySignature = p.keySignature
	score.TimeSignature = p.timeSignature
	score.Tempo = p.tempo

	for i, entry := range p.partList {
		partType := InferPartType(entry.name)
		measures := []model.Measure{}
		for _, b := range p.measures[entry.id] {
			measures = append(measures, b.build())
		}
		score.Parts = append(score.Parts, model.Part{
			Name:        entry.name,
			Type:        partType,
			Measures:    measures,
			MIDIChannel: channelFor(i),
			MIDIProgram: partType.DefaultMIDIProgram(),
		})
	}
	return &score, nil
}

// drumChannel is reserved for percussion in General MIDI.
const drumChannel = 9

// channelFor spreads parts over the 15 melodic channels, skipping drums.
func channelFor(partIndex int) uint8 {
	ch := partIndex % 15
	if ch >= drumChannel {
		ch++
	}
	return uint8(ch)
}
