package sinks

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/persistence"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emissionTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func createEmission(value float64, mode pid.Mode) pid.Emission {
	return pid.Emission{
		Time: emissionTime,
		Mode: mode,
		Pair: pid.EncodeOutput("out", value),
	}
}

func TestOutputs(t *testing.T) {
	// GIVEN
	var first, second []pid.Emission
	sink := Outputs(
		pid.OutputSinkFunc(func(emission pid.Emission) { first = append(first, emission) }),
		nil,
		pid.OutputSinkFunc(func(emission pid.Emission) { second = append(second, emission) }),
	)

	// WHEN
	sink.Emit(createEmission(0.5, pid.ModeNormal))

	// THEN
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

func TestFileSink(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	sink, err := NewFileSink("heater", configuration.FileOutputConfig{
		Forward: filepath.Join(dir, "forward"),
		Reverse: filepath.Join(dir, "reverse"),
	})
	require.NoError(t, err)

	// WHEN
	sink.Emit(createEmission(0.25, pid.ModeNormal))

	// THEN
	assert.Equal(t, 0.25, readValue(t, sink.Forward))
	assert.Equal(t, 0.0, readValue(t, sink.Reverse))

	// WHEN
	sink.Emit(createEmission(-30, pid.ModeFixed))

	// THEN
	assert.Equal(t, 0.0, readValue(t, sink.Forward))
	assert.Equal(t, 30.0, readValue(t, sink.Reverse))
}

func readValue(t *testing.T, path string) float64 {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	value, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	require.NoError(t, err)
	return value
}

func TestJournal(t *testing.T) {
	// GIVEN
	p := persistence.NewPersistence(filepath.Join(t.TempDir(), "pid2go.db"))
	require.NoError(t, p.Init())
	journal := NewJournal(p, 2, 10)

	heater := journal.Sink("heater")
	cooler := journal.Sink("cooler")
	heater.Emit(createEmission(0.1, pid.ModeNormal))
	heater.Emit(createEmission(0.2, pid.ModeNormal))
	heater.Emit(createEmission(0, pid.ModeFire))
	cooler.Emit(createEmission(-0.5, pid.ModeNormal))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	err := journal.Run(ctx)

	// THEN
	require.NoError(t, err)

	records, err := p.LoadOutputRecords("heater", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 0.2, records[0].Forward)
	assert.Equal(t, "fire", records[1].Mode)

	records, err = p.LoadOutputRecords("cooler", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.5, records[0].Reverse)
}

func TestJournal_DropsWhenFull(t *testing.T) {
	// GIVEN
	p := persistence.NewPersistence(filepath.Join(t.TempDir(), "pid2go.db"))
	journal := NewJournal(p, 0, 1)
	sink := journal.Sink("heater")

	// WHEN
	sink.Emit(createEmission(0.1, pid.ModeNormal))
	sink.Emit(createEmission(0.2, pid.ModeNormal))

	// THEN
	assert.Len(t, journal.queue, 1)
}
