package util

import (
	"fmt"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func readFloatFromFile(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, err
	}
	text := strings.TrimSpace(string(data))
	if len(text) <= 0 {
		return -1, fmt.Errorf("file is empty: %s", path)
	}
	return strconv.ParseFloat(text, 64)
}

func TestWriteFloatToFileAtomic(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "forward")

	// WHEN
	err := WriteFloatToFileAtomic(0.125, filePath)

	// THEN
	assert.NoError(t, err)
	value, err := readFloatFromFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, 0.125, value)
}

func TestWriteFloatToFileAtomic_Overwrite(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "reverse")
	err := os.WriteFile(filePath, []byte("12.5\n"), 0644)
	assert.NoError(t, err)

	// WHEN
	err = WriteFloatToFileAtomic(0, filePath)

	// THEN
	assert.NoError(t, err)
	data, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "0", string(data))
}

func TestExpandPath(t *testing.T) {
	// GIVEN
	path := "/tmp/value"

	// WHEN
	result, err := ExpandPath(path)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, path, result)
}

func TestExpandPath_Home(t *testing.T) {
	// GIVEN
	home, err := homedir.Dir()
	assert.NoError(t, err)

	// WHEN
	result, err := ExpandPath("~/actuator/forward")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "actuator", "forward"), result)
}

func TestExpandPath_OtherUser(t *testing.T) {
	// WHEN
	_, err := ExpandPath("~other/actuator/forward")

	// THEN
	assert.Error(t, err)
}
