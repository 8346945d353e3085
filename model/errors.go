package model

type ErrorKind int

const (
	KindFileNotFound ErrorKind = iota + 1
	KindParsingFailed
	KindInvalidMusicXML
	KindAudioEngine
	KindStorage
	KindNetwork
	KindEncoding
)

var kindPrefixes = map[ErrorKind]string{
	KindFileNotFound:    "File not found",
	KindParsingFailed:   "Parsing failed",
	KindInvalidMusicXML: "Invalid MusicXML",
	KindAudioEngine:     "Audio engine error",
	KindStorage:         "Storage error",
	KindNetwork:         "Network error",
	KindEncoding:        "Encoding error",
}

type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	prefix := kindPrefixes[e.Kind]
	if e.Detail == "" {
		return prefix
	}
	return prefix + ": " + e.Detail
}

// Is matches any *Error of the same kind, so the Err* values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrFileNotFound    = &Error{Kind: KindFileNotFound}
	ErrParsingFailed   = &Error{Kind: KindParsingFailed}
	ErrInvalidMusicXML = &Error{Kind: KindInvalidMusicXML}
	ErrAudioEngine     = &Error{Kind: KindAudioEngine}
	ErrStorage         = &Error{Kind: KindStorage}
	ErrNetwork         = &Error{Kind: KindNetwork}
	ErrEncoding        = &Error{Kind: KindEncoding}
)

func FileNotFound(path string) *Error {
	return &Error{Kind: KindFileNotFound, Detail: path}
}

func ParsingFailed(detail string) *Error {
	return &Error{Kind: KindParsingFailed, Detail: detail}
}

func InvalidMusicXML(detail string) *Error {
	return &Error{Kind: KindInvalidMusicXML, Detail: detail}
}

func StorageError(detail string) *Error {
	return &Error{Kind: KindStorage, Detail: detail}
}

func EncodingError(detail string) *Error {
	return &Error{Kind: KindEncoding, Detail: detail}
}

func AudioEngineError(detail string) *Error {
	return &Error{Kind: KindAudioEngine, Detail: detail}
}
