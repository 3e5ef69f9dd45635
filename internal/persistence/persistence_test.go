package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordStart = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func createPersistence(t *testing.T) Persistence {
	dbPath := filepath.Join(t.TempDir(), "db", "pid2go.db")
	p := NewPersistence(dbPath)
	require.NoError(t, p.Init())
	return p
}

func createRecords(count int) []OutputRecord {
	var result []OutputRecord
	for i := 0; i < count; i++ {
		result = append(result, OutputRecord{
			Time:    recordStart.Add(time.Duration(i) * time.Second),
			Mode:    "normal",
			Forward: float64(i),
			Reverse: 0,
		})
	}
	return result
}

func TestPersistence_Init_CreatesDirectory(t *testing.T) {
	// GIVEN
	dir := filepath.Join(t.TempDir(), "a", "b")
	p := NewPersistence(filepath.Join(dir, "pid2go.db"))

	// WHEN
	err := p.Init()

	// THEN
	assert.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestPersistence_SaveAndLoadOutputRecords(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	records := createRecords(3)

	// WHEN
	err := p.SaveOutputRecords("heater", records, 0)
	require.NoError(t, err)
	result, err := p.LoadOutputRecords("heater", 0)

	// THEN
	require.NoError(t, err)
	require.Len(t, result, 3)
	for i, record := range result {
		assert.True(t, records[i].Time.Equal(record.Time))
		assert.Equal(t, records[i].Forward, record.Forward)
		assert.Equal(t, "normal", record.Mode)
	}
}

func TestPersistence_LoadOutputRecords_Limit(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.SaveOutputRecords("heater", createRecords(10), 0))

	// WHEN
	result, err := p.LoadOutputRecords("heater", 3)

	// THEN
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, 7.0, result[0].Forward)
	assert.Equal(t, 9.0, result[2].Forward)
}

func TestPersistence_SaveOutputRecords_Prunes(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.SaveOutputRecords("heater", createRecords(4), 5))

	// WHEN
	err := p.SaveOutputRecords("heater", createRecords(4), 5)

	// THEN
	require.NoError(t, err)
	result, err := p.LoadOutputRecords("heater", 0)
	require.NoError(t, err)
	require.Len(t, result, 5)
	// the oldest three records of the first batch were removed
	assert.Equal(t, 3.0, result[0].Forward)
	assert.Equal(t, 3.0, result[4].Forward)
}

func TestPersistence_LoadOutputRecords_Unknown(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.SaveOutputRecords("heater", createRecords(1), 0))

	// WHEN
	result, err := p.LoadOutputRecords("cooler", 0)

	// THEN
	assert.Nil(t, result)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistence_LoadOutputRecords_MissingDatabase(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	result, err := p.LoadOutputRecords("heater", 0)

	// THEN
	assert.Nil(t, result)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistence_DeleteOutputRecords(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.SaveOutputRecords("heater", createRecords(2), 0))
	require.NoError(t, p.SaveOutputRecords("cooler", createRecords(2), 0))

	// WHEN
	err := p.DeleteOutputRecords("heater")
	assert.NoError(t, err)

	// THEN
	_, err = p.LoadOutputRecords("heater", 0)
	assert.ErrorIs(t, err, os.ErrNotExist)

	ids, err := p.LoadControllerIds()
	assert.NoError(t, err)
	assert.Equal(t, []string{"cooler"}, ids)

	assert.NoError(t, p.DeleteOutputRecords("unknown"))
}
