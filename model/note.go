package model

import "encoding/json"

type NoteType string

const (
	Whole     NoteType = "whole"
	Half      NoteType = "half"
	Quarter   NoteType = "quarter"
	Eighth    NoteType = "eighth"
	Sixteenth NoteType = "sixteenth"
)

// ParseNoteType maps a MusicXML <type> value. Anything unknown is a quarter.
func ParseNoteType(s string) NoteType {
	switch s {
	case "whole":
		return Whole
	case "half":
		return Half
	case "quarter":
		return Quarter
	case "eighth":
		return Eighth
	case "16th", "sixteenth":
		return Sixteenth
	}
	return Quarter
}

// RelativeDuration is the nominal length in quarter notes.
func (t NoteType) RelativeDuration() float64 {
	switch t {
	case Whole:
		return 4
	case Half:
		return 2
	case Eighth:
		return 0.5
	case Sixteenth:
		return 0.25
	}
	return 1
}

type Dynamic string

const (
	PPP         Dynamic = "ppp"
	PP          Dynamic = "pp"
	P           Dynamic = "p"
	MP          Dynamic = "mp"
	MF          Dynamic = "mf"
	F           Dynamic = "f"
	FF          Dynamic = "ff"
	FFF         Dynamic = "fff"
	Crescendo   Dynamic = "crescendo"
	Decrescendo Dynamic = "decrescendo"
)

var dynamicsByName = map[string]Dynamic{
	"ppp": PPP, "pp": PP, "p": P, "mp": MP, "mf": MF, "f": F, "ff": FF, "fff": FFF,
	"crescendo": Crescendo, "decrescendo": Decrescendo, "diminuendo": Decrescendo,
}

func ParseDynamic(s string) (Dynamic, bool) {
	d, ok := dynamicsByName[s]
	return d, ok
}

// Note is a rest when Pitches is empty and a chord when it holds more than one pitch.
type Note struct {
	Pitches  []Pitch  `json:"pitches"`
	Duration float64  `json:"duration"`
	Type     NoteType `json:"type"`
	IsRest   bool     `json:"isRest"`
	IsTied   bool     `json:"isTied"`
	Lyric    *Lyric   `json:"lyric,omitempty"`
	Dynamic  *Dynamic `json:"dynamic,omitempty"`
}

// Pitch returns the first pitch of the note.
func (n Note) Pitch() (Pitch, bool) {
	if len(n.Pitches) == 0 {
		return Pitch{}, false
	}
	return n.Pitches[0], true
}

func (n Note) IsChord() bool {
	return len(n.Pitches) > 1
}

func (n Note) MIDINumbers() []int {
	res := make([]int, len(n.Pitches))
	for i, p := range n.Pitches {
		res[i] = p.MIDINumber()
	}
	return res
}

// SamePitches compares the MIDI number sequences of two notes.
func (n Note) SamePitches(other Note) bool {
	if len(n.Pitches) != len(other.Pitches) {
		return false
	}
	for i := range n.Pitches {
		if n.Pitches[i].MIDINumber() != other.Pitches[i].MIDINumber() {
			return false
		}
	}
	return true
}

type noteJSON struct {
	Pitches  []Pitch  `json:"pitches"`
	Pitch    *Pitch   `json:"pitch,omitempty"`
	Duration float64  `json:"duration"`
	Type     NoteType `json:"type"`
	IsRest   bool     `json:"isRest"`
	IsTied   bool     `json:"isTied"`
	Lyric    *Lyric   `json:"lyric,omitempty"`
	Dynamic  *Dynamic `json:"dynamic,omitempty"`
}

// UnmarshalJSON also accepts the older single "pitch" field.
func (n *Note) UnmarshalJSON(data []byte) error {
	var raw noteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Note{
		Pitches:  raw.Pitches,
		Duration: raw.Duration,
		Type:     raw.Type,
		IsRest:   raw.IsRest,
		IsTied:   raw.IsTied,
		Lyric:    raw.Lyric,
		Dynamic:  raw.Dynamic,
	}
	if n.Pitches == nil && raw.Pitch != nil {
		n.Pitches = []Pitch{*raw.Pitch}
	}
	if n.Pitches == nil {
		n.Pitches = []Pitch{}
	}
	if n.Type == "" {
		n.Type = Quarter
	}
	return nil
}

type Syllabic string

const (
	Single Syllabic = "single"
	Begin  Syllabic = "begin"
	Middle Syllabic = "middle"
	End    Syllabic = "end"
)

func ParseSyllabic(s string) Syllabic {
	switch Syllabic(s) {
	case Begin, Middle, End:
		return Syllabic(s)
	}
	return Single
}

type Lyric struct {
	Text     string   `json:"text"`
	Syllabic Syllabic `json:"syllabic"`
}
