package model

import "time"

// PracticeSession records one run through (part of) a score.
type PracticeSession struct {
	ID              string     `json:"id"`
	ScoreID         string     `json:"scoreId"`
	Date            time.Time  `json:"date"`
	DurationSeconds float64    `json:"durationSeconds"`
	PartTypes       []PartType `json:"partTypes"`
	StartMeasure    int        `json:"startMeasure,omitempty"`
	EndMeasure      int        `json:"endMeasure,omitempty"`
}
