package sinks

import (
	"context"
	"github.com/markusressel/pid2go/internal/persistence"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
)

type journalEntry struct {
	controllerId string
	record       persistence.OutputRecord
}

// Journal records emissions of all controllers in the persistence.
// Emit never blocks the controller, entries are dropped if the queue is full.
type Journal struct {
	persistence persistence.Persistence
	maxRecords  int
	queue       chan journalEntry
}

func NewJournal(p persistence.Persistence, maxRecords int, queueSize int) *Journal {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Journal{
		persistence: p,
		maxRecords:  maxRecords,
		queue:       make(chan journalEntry, queueSize),
	}
}

// Sink returns an OutputSink recording the emissions of the given controller
func (j *Journal) Sink(controllerId string) pid.OutputSink {
	return pid.OutputSinkFunc(func(emission pid.Emission) {
		entry := journalEntry{
			controllerId: controllerId,
			record: persistence.OutputRecord{
				Time:    emission.Time,
				Mode:    emission.Mode.String(),
				Forward: emission.Pair.Forward(),
				Reverse: emission.Pair.Reverse(),
			},
		}
		select {
		case j.queue <- entry:
		default:
			ui.Warning("Journal queue is full, dropping output of controller %s", controllerId)
		}
	})
}

// Run writes queued entries until ctx is done. Entries that are still queued
// at that point are written before Run returns.
func (j *Journal) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			j.write(j.drain(nil))
			return nil
		case entry := <-j.queue:
			j.write(j.drain([]journalEntry{entry}))
		}
	}
}

func (j *Journal) drain(entries []journalEntry) []journalEntry {
	for {
		select {
		case entry := <-j.queue:
			entries = append(entries, entry)
		default:
			return entries
		}
	}
}

func (j *Journal) write(entries []journalEntry) {
	grouped := map[string][]persistence.OutputRecord{}
	for _, entry := range entries {
		grouped[entry.controllerId] = append(grouped[entry.controllerId], entry.record)
	}

	for _, controllerId := range util.SortedKeys(grouped) {
		err := j.persistence.SaveOutputRecords(controllerId, grouped[controllerId], j.maxRecords)
		if err != nil {
			ui.Error("Unable to write journal of controller %s: %v", controllerId, err)
		}
	}
}
