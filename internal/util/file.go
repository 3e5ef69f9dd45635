package util

import (
	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" to the home directory of the current user.
// Paths referencing the home directory of another user ("~other/...") are rejected.
func ExpandPath(path string) (string, error) {
	return homedir.Expand(path)
}

// WriteFloatToFileAtomic replaces the content of the file at path with the given value.
// Readers never observe a partially written value.
func WriteFloatToFileAtomic(value float64, path string) error {
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	valueReader := strings.NewReader(FormatFloat(value))
	return atomic.WriteFile(path, valueReader)
}

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
