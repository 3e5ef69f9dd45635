package sinks

import (
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
)

// FileSink writes the magnitude of the forward and reverse channel into
// separate files, e.g. sysfs attributes of an actuator.
type FileSink struct {
	ControllerId string
	Forward      string
	Reverse      string

	last *pid.OutputPair
}

func NewFileSink(controllerId string, config configuration.FileOutputConfig) (*FileSink, error) {
	forward, err := util.ExpandPath(config.Forward)
	if err != nil {
		return nil, err
	}
	reverse, err := util.ExpandPath(config.Reverse)
	if err != nil {
		return nil, err
	}
	return &FileSink{
		ControllerId: controllerId,
		Forward:      forward,
		Reverse:      reverse,
	}, nil
}

func (s *FileSink) Emit(emission pid.Emission) {
	pair := emission.Pair
	if s.last == nil || s.last.Forward() != pair.Forward() {
		if err := util.WriteFloatToFileAtomic(pair.Forward(), s.Forward); err != nil {
			ui.Error("Controller %s: unable to write forward output to %s: %v", s.ControllerId, s.Forward, err)
			return
		}
	}
	if s.last == nil || s.last.Reverse() != pair.Reverse() {
		if err := util.WriteFloatToFileAtomic(pair.Reverse(), s.Reverse); err != nil {
			ui.Error("Controller %s: unable to write reverse output to %s: %v", s.ControllerId, s.Reverse, err)
			return
		}
	}
	s.last = &pair
}
