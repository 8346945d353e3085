package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/log"
	"github.com/jsphweid/choirdex/model"
)

const DefaultFlushDelay = 500 * time.Millisecond

type settingsFile struct {
	UserPartTypes []string `json:"userPartTypes"`
}

// Settings holds user preferences in memory and writes them back to disk
// once changes settle.
type Settings struct {
	path      string
	logger    *log.Logger
	debounced func(f func())

	mu     sync.Mutex
	values settingsFile
	dirty  bool
}

// OpenSettings loads path if it exists. Writes are flushed delay after the
// last change.
func OpenSettings(path string, delay time.Duration, logger *log.Logger) (*Settings, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Settings{
		path:      path,
		logger:    logger,
		debounced: debounce.New(delay),
	}
	err := readJSON(path, &s.values)
	if err != nil && !errors.Is(err, model.ErrFileNotFound) {
		return nil, err
	}
	return s, nil
}

// UserPartTypes returns the parts the user sings, tenor when never set.
// Unknown stored values are dropped.
func (s *Settings) UserPartTypes() []model.PartType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values.UserPartTypes == nil {
		return []model.PartType{model.Tenor}
	}
	res := []model.PartType{}
	for _, raw := range s.values.UserPartTypes {
		if pt, err := model.ParsePartType(raw); err == nil {
			res = append(res, pt)
		}
	}
	return res
}

func (s *Settings) SetUserPartTypes(types []model.PartType) {
	raw := make([]string, len(types))
	for i, t := range types {
		raw[i] = string(t)
	}

	s.mu.Lock()
	s.values.UserPartTypes = raw
	s.dirty = true
	s.mu.Unlock()

	s.debounced(func() {
		if err := s.Flush(); err != nil {
			s.logger.Error("could not save settings", "path", s.path, "err", err)
		}
	})
}

// Flush writes pending changes now.
func (s *Settings) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := writeJSON(s.path, s.values); err != nil {
		return err
	}
	s.dirty = false
	s.logger.Debug("saved settings", "path", s.path)
	return nil
}
