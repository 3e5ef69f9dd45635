package sinks

import (
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
)

// LogSink prints emissions and status changes of a controller
type LogSink struct {
	ControllerId string
}

func (s LogSink) Emit(emission pid.Emission) {
	pair := emission.Pair
	ui.Printfln("%s [%s] %s: %s / %s",
		emission.Time.Format("15:04:05.000"),
		s.ControllerId,
		emission.Mode,
		util.FormatFloat(pair.Forward()),
		util.FormatFloat(pair.Reverse()),
	)
}

func (s LogSink) SetStatus(status pid.Status) {
	if len(status.Text) <= 0 {
		ui.Debug("Controller %s: status cleared", s.ControllerId)
		return
	}
	ui.Info("Controller %s: %s", s.ControllerId, status.Text)
}
