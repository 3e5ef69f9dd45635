package sinks

import (
	"github.com/markusressel/pid2go/internal/pid"
)

// Outputs fans an emission out to all given sinks, nil sinks are skipped
func Outputs(sinks ...pid.OutputSink) pid.OutputSink {
	return pid.OutputSinkFunc(func(emission pid.Emission) {
		for _, sink := range sinks {
			if sink != nil {
				sink.Emit(emission)
			}
		}
	})
}
