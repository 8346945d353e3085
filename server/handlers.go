package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/choirdex/midi"
	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/musicxml"
	"github.com/jsphweid/choirdex/notation"
	"github.com/jsphweid/choirdex/schedule"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Error: detail})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrParsingFailed), errors.Is(err, model.ErrInvalidMusicXML):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeError(w, status, err.Error())
}

func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*model.Score, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body: "+err.Error())
		return nil, false
	}
	score, err := musicxml.ParseBytes(body)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return score, true
}

func (s *Server) loadScore(w http.ResponseWriter, r *http.Request) (model.Score, bool) {
	score, err := s.opts.Scores.Load(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return score, false
	}
	return score, true
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	score, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (s *Server) handleCreateScore(w http.ResponseWriter, r *http.Request) {
	score, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	if s.opts.Settings != nil {
		score.UserPartTypes = s.opts.Settings.UserPartTypes()
	}
	if err := s.opts.Scores.Save(score); err != nil {
		s.fail(w, r, err)
		return
	}

	summary := model.Summarize(*score)
	if s.opts.Index != nil {
		if err := s.opts.Index.Put(summary); err != nil {
			s.logger.Warn("could not index score", "id", score.ID, "err", err)
		}
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.opts.Scores.LoadAll()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res := make([]model.ScoreSummary, 0, len(scores))
	for _, score := range scores {
		res = append(res, model.Summarize(score))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	score, ok := s.loadScore(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.opts.Scores.Exists(id) {
		writeError(w, http.StatusNotFound, model.FileNotFound(id).Error())
		return
	}
	if err := s.opts.Scores.Delete(id); err != nil {
		s.fail(w, r, err)
		return
	}
	if s.opts.Index != nil {
		if err := s.opts.Index.Delete(id); err != nil {
			s.logger.Warn("could not remove score from index", "id", id, "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// floatParam reads an optional query parameter. ok is false after an error
// response has been written.
func floatParam(w http.ResponseWriter, r *http.Request, name string, fallback float64) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a number", name))
		return 0, false
	}
	return v, true
}

// intParam reads an optional integer query parameter. ok is false after an
// error response has been written.
func intParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	return v, true
}

// excerpt applies the from/to beat or fromMeasure/toMeasure query parameters.
// Measure numbers follow the first part.
func excerpt(w http.ResponseWriter, r *http.Request, score model.Score, sched schedule.Schedule) (schedule.Schedule, bool) {
	q := r.URL.Query()
	if q.Get("fromMeasure") != "" || q.Get("toMeasure") != "" {
		if len(score.Parts) == 0 || len(score.Parts[0].Measures) == 0 {
			writeError(w, http.StatusBadRequest, "score has no measures")
			return sched, false
		}
		measures := score.Parts[0].Measures
		first, ok := intParam(w, r, "fromMeasure", measures[0].Number)
		if !ok {
			return sched, false
		}
		last, ok := intParam(w, r, "toMeasure", measures[len(measures)-1].Number)
		if !ok {
			return sched, false
		}
		window, ok := sched.MeasureWindow(score.Parts[0], first, last)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("no measures %d to %d", first, last))
			return sched, false
		}
		return window, true
	}

	if q.Get("from") == "" && q.Get("to") == "" {
		return sched, true
	}
	from, ok := floatParam(w, r, "from", 0)
	if !ok {
		return sched, false
	}
	to, ok := floatParam(w, r, "to", sched.TotalBeats)
	if !ok {
		return sched, false
	}
	if from < 0 || to < from {
		writeError(w, http.StatusBadRequest, "from and to must satisfy 0 <= from <= to")
		return sched, false
	}
	return sched.Window(from, to), true
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	score, ok := s.loadScore(w, r)
	if !ok {
		return
	}
	sched, ok := excerpt(w, r, score, s.opts.Scheduler.Schedule(score))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleMIDI(w http.ResponseWriter, r *http.Request) {
	score, ok := s.loadScore(w, r)
	if !ok {
		return
	}
	sched, ok := excerpt(w, r, score, s.opts.Scheduler.Schedule(score))
	if !ok {
		return
	}
	data, err := midi.Encode(sched, score.Parts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", score.ID+".mid"))
	w.Write(data)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	score, ok := s.loadScore(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "part index must be an integer")
		return
	}
	if index < 0 || index >= len(score.Parts) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("score has no part %d", index))
		return
	}
	width, ok := floatParam(w, r, "width", s.opts.LayoutWidth)
	if !ok {
		return
	}
	if width <= 0 {
		writeError(w, http.StatusBadRequest, "width must be positive")
		return
	}

	part := score.Parts[index]
	geometry := notation.GeometryForPart(part, s.opts.StaffSpacing, s.spacing())
	writeJSON(w, http.StatusOK, notation.NewEngine(geometry, width).Layout(part))
}

func (s *Server) spacing() notation.Spacing {
	if s.opts.Spacing == (notation.Spacing{}) {
		return notation.DefaultSpacing()
	}
	return s.opts.Spacing
}

func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.opts.Scores.Exists(id) {
		writeError(w, http.StatusNotFound, model.FileNotFound(id).Error())
		return
	}

	var input model.SessionRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not unmarshal request body: "+err.Error())
		return
	}
	if input.DurationSeconds < 0 {
		writeError(w, http.StatusBadRequest, "durationSeconds must not be negative")
		return
	}
	partTypes, ok := parsePartTypes(w, input.PartTypes)
	if !ok {
		return
	}

	session, err := s.opts.History.Record(model.PracticeSession{
		ScoreID:         id,
		DurationSeconds: input.DurationSeconds,
		PartTypes:       partTypes,
		StartMeasure:    input.StartMeasure,
		EndMeasure:      input.EndMeasure,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.opts.History.Sessions(mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) settingsAvailable(w http.ResponseWriter) bool {
	if s.opts.Settings == nil {
		writeError(w, http.StatusNotFound, "settings are not available")
		return false
	}
	return true
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if !s.settingsAvailable(w) {
		return
	}
	writeJSON(w, http.StatusOK, model.SettingsBody{UserPartTypes: s.opts.Settings.UserPartTypes()})
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	if !s.settingsAvailable(w) {
		return
	}
	var input model.SettingsBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not unmarshal request body: "+err.Error())
		return
	}
	types, ok := parsePartTypes(w, input.UserPartTypes)
	if !ok {
		return
	}
	s.opts.Settings.SetUserPartTypes(types)
	writeJSON(w, http.StatusOK, model.SettingsBody{UserPartTypes: types})
}

// parsePartTypes normalizes part types from a request body. ok is false
// after a 400 has been written for an unknown type.
func parsePartTypes(w http.ResponseWriter, raw []model.PartType) ([]model.PartType, bool) {
	types := make([]model.PartType, 0, len(raw))
	for _, r := range raw {
		pt, err := model.ParsePartType(string(r))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		types = append(types, pt)
	}
	return types, true
}
