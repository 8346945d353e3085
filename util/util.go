package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

var scoreExtensions = []string{".musicxml", ".xml", ".mxl"}

func IsScorePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range scoreExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// GatherScorePaths walks path for MusicXML files. A maxNum of 0 means no limit.
func GatherScorePaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsScorePath(s) {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	return res, nil
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0777)
}

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Ordered](v, lo, hi A) A {
	return Max(lo, Min(v, hi))
}

func Sum[A constraints.Integer | constraints.Float](nums []A) A {
	var total A
	for _, v := range nums {
		total += v
	}
	return total
}
