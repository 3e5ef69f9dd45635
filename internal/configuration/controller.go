package configuration

import "time"

type ControllerConfig struct {
	// Unique identifier of this controller
	ID string `json:"id"`
	// Topic of the outbound forward/reverse messages
	Topic string `json:"topic"`

	// Proportional gain
	Kp float64 `json:"kp"`
	// Integral time, 0 disables the integral term
	Ki float64 `json:"ki"`
	// Derivative time
	Kd float64 `json:"kd"`
	// Tick interval in seconds
	RecalcTime float64 `json:"recalcTime"`

	SetPointTopic string `json:"setPointTopic"`
	FireTopic     string `json:"fireTopic"`
	FixedTopic    string `json:"fixedTopic"`

	FixedValue float64           `json:"fixedValue"`
	SetPoint   Optional[float64] `json:"setPoint"`
	DeadBand   float64           `json:"deadBand"`

	// Time after which an engaged fire interlock clears itself
	FireTimeout time.Duration `json:"fireTimeout"`
	// Reproduces the historic output scaling (rounded output times 10)
	LegacyQuantization DefaultTrueBool `json:"legacyQuantization"`
	// Record emitted outputs in the journal database
	Journal DefaultTrueBool `json:"journal"`

	Output OutputConfig `json:"output"`
}

type OutputConfig struct {
	File *FileOutputConfig `json:"file,omitempty"`
}

// FileOutputConfig writes the magnitude of each channel into its own file
type FileOutputConfig struct {
	Forward string `json:"forward"`
	Reverse string `json:"reverse"`
}

// MinTickInterval is the shortest supported recalcTime
const MinTickInterval = time.Millisecond

// TickInterval returns RecalcTime as a duration
func (c ControllerConfig) TickInterval() time.Duration {
	return time.Duration(c.RecalcTime * float64(time.Second))
}
