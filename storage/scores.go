package storage

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jsphweid/choirdex/model"
)

const ScoreExtension = ".choirdex"

var scoreFile = regexp.MustCompile(`^[0-9a-fA-F-]{36}\.choirdex$`)

// Scores keeps one JSON file per score, named after its id.
type Scores struct {
	dir    string
	logger *log.Logger
	mu     sync.Mutex
}

func NewScores(dir string, logger *log.Logger) *Scores {
	if logger == nil {
		logger = log.Default()
	}
	return &Scores{dir: dir, logger: logger}
}

func (s *Scores) Dir() string {
	return s.dir
}

func (s *Scores) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", model.FileNotFound(id + ScoreExtension)
	}
	return filepath.Join(s.dir, id+ScoreExtension), nil
}

// Save writes score, assigning a new id first when it has none.
func (s *Scores) Save(score *model.Score) error {
	if score.ID == "" {
		score.ID = uuid.New().String()
	}
	path, err := s.path(score.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeJSON(path, score); err != nil {
		return err
	}
	s.logger.Debug("saved score", "id", score.ID, "title", score.Title)
	return nil
}

func (s *Scores) Load(id string) (model.Score, error) {
	var score model.Score
	path, err := s.path(id)
	if err != nil {
		return score, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := readJSON(path, &score); err != nil {
		return model.Score{}, err
	}
	return score, nil
}

// LoadAll returns every readable score sorted by title. Files that fail to
// decode are skipped.
func (s *Scores) LoadAll() ([]model.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []model.Score{}
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return res, nil
	}
	if err != nil {
		return nil, model.StorageError(err.Error())
	}

	for _, entry := range entries {
		if entry.IsDir() || !scoreFile.MatchString(entry.Name()) {
			continue
		}
		var score model.Score
		if err := readJSON(filepath.Join(s.dir, entry.Name()), &score); err != nil {
			s.logger.Warn("skipping score", "file", entry.Name(), "err", err)
			continue
		}
		res = append(res, score)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Title < res[j].Title
	})
	return res, nil
}

// Delete removes a score. Deleting an unknown id is not an error.
func (s *Scores) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return model.StorageError(err.Error())
	}
	return nil
}

func (s *Scores) Exists(id string) bool {
	path, err := s.path(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
