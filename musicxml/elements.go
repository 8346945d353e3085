package musicxml

type element int

const (
	elUnknown element = iota
	elScorePartwise
	elPartList
	elScorePart
	elPartName
	elPart
	elMeasure
	elAttributes
	elDivisions
	elKey
	elFifths
	elMode
	elTime
	elBeats
	elBeatType
	elNote
	elRest
	elChord
	elGrace
	elPitch
	elStep
	elAlter
	elOctave
	elDuration
	elVoice
	elType
	elTie
	elLyric
	elText
	elSyllabic
	elDirection
	elDirectionType
	elDynamics
	elWedge
	elNotations
	elSound
	elWork
	elWorkTitle
	elMovementTitle
	elIdentification
	elCreator
)

var elementsByName = map[string]element{
	"score-partwise": elScorePartwise,
	"part-list":      elPartList,
	"score-part":     elScorePart,
	"part-name":      elPartName,
	"part":           elPart,
	"measure":        elMeasure,
	"attributes":     elAttributes,
	"divisions":      elDivisions,
	"key":            elKey,
	"fifths":         elFifths,
	"mode":           elMode,
	"time":           elTime,
	"beats":          elBeats,
	"beat-type":      elBeatType,
	"note":           elNote,
	"rest":           elRest,
	"chord":          elChord,
	"grace":          elGrace,
	"pitch":          elPitch,
	"step":           elStep,
	"alter":          elAlter,
	"octave":         elOctave,
	"duration":       elDuration,
	"voice":          elVoice,
	"type":           elType,
	"tie":            elTie,
	"lyric":          elLyric,
	"text":           elText,
	"syllabic":       elSyllabic,
	"direction":      elDirection,
	"direction-type": elDirectionType,
	"dynamics":       elDynamics,
	"wedge":          elWedge,
	"notations":      elNotations,
	"sound":          elSound,
	"work":           elWork,
	"work-title":     elWorkTitle,
	"movement-title": elMovementTitle,
	"identification": elIdentification,
	"creator":        elCreator,
}

func lookupElement(name string) element {
	return elementsByName[name]
}
