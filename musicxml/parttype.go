package musicxml

import (
	"regexp"
	"strings"

	"github.com/jsphweid/choirdex/model"
)

type partTypePattern struct {
	match    *regexp.Regexp
	partType model.PartType
}

// Most specific first. "soprano ii" has to be tested with a word boundary or
// it would be caught by "soprano i".
var partTypePatterns = []partTypePattern{
	{regexp.MustCompile(`soprano (1|i)\b`), model.Soprano1},
	{regexp.MustCompile(`soprano (2|ii)\b`), model.Soprano2},
	{regexp.MustCompile(`alto (1|i)\b`), model.Alto1},
	{regexp.MustCompile(`alto (2|ii)\b`), model.Alto2},
	{regexp.MustCompile(`tenor (1|i)\b`), model.Tenor1},
	{regexp.MustCompile(`tenor (2|ii)\b`), model.Tenor2},
	{regexp.MustCompile(`bass (1|i)\b`), model.Bass1},
	{regexp.MustCompile(`bass (2|ii)\b`), model.Bass2},
	{regexp.MustCompile(`soprano`), model.Soprano},
	{regexp.MustCompile(`alto`), model.Alto},
	{regexp.MustCompile(`tenor`), model.Tenor},
	{regexp.MustCompile(`bass|bariton`), model.Bass},
	{regexp.MustCompile(`descant`), model.Descant},
	{regexp.MustCompile(`piano|accomp`), model.Piano},
	{regexp.MustCompile(`organ|keyboard`), model.Accompaniment},
}

// InferPartType guesses the voice of a part from its declared name.
// Unrecognized names are sung by sopranos.
func InferPartType(name string) model.PartType {
	lower := strings.ToLower(name)
	for _, p := range partTypePatterns {
		if p.match.MatchString(lower) {
			return p.partType
		}
	}
	return model.Soprano
}
