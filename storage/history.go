package storage

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/util"
)

// History appends practice sessions to a single JSON file.
type History struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewHistory(path string) *History {
	return &History{path: path, now: time.Now}
}

func (h *History) load() ([]model.PracticeSession, error) {
	sessions := []model.PracticeSession{}
	err := readJSON(h.path, &sessions)
	if errors.Is(err, model.ErrFileNotFound) {
		return []model.PracticeSession{}, nil
	}
	return sessions, err
}

// Record stores a session, filling in its id and date when unset.
func (h *History) Record(session model.PracticeSession) (model.PracticeSession, error) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.Date.IsZero() {
		session.Date = h.now().UTC()
	}
	if session.PartTypes == nil {
		session.PartTypes = []model.PartType{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	sessions, err := h.load()
	if err != nil {
		return session, err
	}
	sessions = append(sessions, session)
	return session, writeJSON(h.path, sessions)
}

// Sessions returns the sessions of one score, newest first.
func (h *History) Sessions(scoreID string) ([]model.PracticeSession, error) {
	all, err := h.All()
	if err != nil {
		return nil, err
	}
	res := []model.PracticeSession{}
	for _, s := range all {
		if s.ScoreID == scoreID {
			res = append(res, s)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Date.After(res[j].Date)
	})
	return res, nil
}

// All returns every session in recording order.
func (h *History) All() ([]model.PracticeSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *History) TotalSeconds(scoreID string) (float64, error) {
	sessions, err := h.Sessions(scoreID)
	if err != nil {
		return 0, err
	}
	durations := make([]float64, len(sessions))
	for i, s := range sessions {
		durations[i] = s.DurationSeconds
	}
	return util.Sum(durations), nil
}
