package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/jsphweid/choirdex/model"
	"github.com/jsphweid/choirdex/util"
)

// writeJSON replaces path atomically with the indented encoding of v.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.EncodingError(err.Error())
	}

	dir := filepath.Dir(path)
	if err := util.EnsureDir(dir); err != nil {
		return model.StorageError(err.Error())
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return model.StorageError(err.Error())
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return model.StorageError(err.Error())
	}
	if err := tmp.Close(); err != nil {
		return model.StorageError(err.Error())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return model.StorageError(err.Error())
	}
	return nil
}

// readJSON decodes path into v. A missing file is FileNotFound.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.FileNotFound(path)
	}
	if err != nil {
		return model.StorageError(err.Error())
	}
	if err := json.Unmarshal(data, v); err != nil {
		return model.EncodingError(err.Error())
	}
	return nil
}
