package pid

import (
	"github.com/markusressel/pid2go/internal/scheduler"
	"time"
)

type FixedState struct {
	Value     float64
	Activated bool
}

type FireState struct {
	Engaged     bool
	ActivatedAt time.Time
}

// ControlState holds the process variables of a controller.
// It is owned by a single Controller and only accessed from its scheduler.
type ControlState struct {
	SetPoint         *float64
	Measured         *float64
	PreviousMeasured *float64

	Integral float64
	// last derivative term, it does not contribute to the output
	Derivative float64
	LastTick   time.Time

	Fixed FixedState
	Fire  FireState

	fireTimeout scheduler.CancelHandle
}

func newControlState(config Config) ControlState {
	return ControlState{
		SetPoint: copyFloat(config.SetPoint),
		Fixed: FixedState{
			Value: config.FixedValue,
		},
	}
}

// clear resets the accumulated values and the measurement history.
// Mode flags are left untouched.
func (s *ControlState) clear() {
	s.Integral = 0
	s.Derivative = 0
	s.LastTick = time.Time{}
	s.Measured = nil
	s.PreviousMeasured = nil
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
