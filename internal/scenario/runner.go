package scenario

import (
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/scheduler"
	"time"
)

// Epoch is the virtual start time of every scenario
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type EmissionEntry struct {
	At   time.Duration  `json:"at"`
	Mode pid.Mode       `json:"mode"`
	Pair pid.OutputPair `json:"pair"`
}

type StatusEntry struct {
	At     time.Duration `json:"at"`
	Status pid.Status    `json:"status"`
}

// Trace is the observable result of a scenario run
type Trace struct {
	Emissions []EmissionEntry `json:"emissions"`
	Statuses  []StatusEntry   `json:"statuses"`
	Final     pid.Snapshot    `json:"final"`
}

// Run replays the scenario in virtual time. Ticks that are due at the same
// instant as a step are executed before the step.
func Run(s *Scenario) Trace {
	manual := scheduler.NewManual(Epoch)
	trace := Trace{}

	output := pid.OutputSinkFunc(func(emission pid.Emission) {
		trace.Emissions = append(trace.Emissions, EmissionEntry{
			At:   emission.Time.Sub(Epoch),
			Mode: emission.Mode,
			Pair: emission.Pair,
		})
	})
	status := pid.StatusSinkFunc(func(status pid.Status) {
		trace.Statuses = append(trace.Statuses, StatusEntry{
			At:     manual.Now().Sub(Epoch),
			Status: status,
		})
	})

	controller := pid.NewController(s.Controller.ID, pid.NewConfig(s.Controller), manual, output, status)
	controller.Start()

	var elapsed time.Duration
	for _, step := range s.Steps {
		manual.Advance(step.At - elapsed)
		elapsed = step.At
		controller.HandleInput(pid.Message{
			Topic:   step.Topic,
			Payload: pid.PayloadOf(step.Payload),
		})
	}
	manual.Advance(s.Duration - elapsed)

	controller.Close()
	trace.Final = controller.Snapshot()
	return trace
}
