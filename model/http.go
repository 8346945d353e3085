package model

type ScoreSummary struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Composer        string   `json:"composer,omitempty"`
	Parts           []string `json:"parts"`
	MeasureCount    int      `json:"measureCount"`
	Tempo           int      `json:"tempo"`
	DurationSeconds float64  `json:"durationSeconds"`
}

func Summarize(s Score) ScoreSummary {
	names := make([]string, len(s.Parts))
	for i, p := range s.Parts {
		names[i] = p.Name
	}
	return ScoreSummary{
		ID:              s.ID,
		Title:           s.Title,
		Composer:        s.Composer,
		Parts:           names,
		MeasureCount:    s.MeasureCount(),
		Tempo:           s.Tempo,
		DurationSeconds: s.DurationSeconds(),
	}
}

type SessionRequestBody struct {
	PartTypes       []PartType `json:"partTypes"`
	DurationSeconds float64    `json:"durationSeconds"`
	StartMeasure    int        `json:"startMeasure"`
	EndMeasure      int        `json:"endMeasure"`
}

type SettingsBody struct {
	UserPartTypes []PartType `json:"userPartTypes"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
