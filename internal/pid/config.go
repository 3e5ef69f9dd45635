package pid

import (
	"github.com/markusressel/pid2go/internal/configuration"
	"math"
	"time"
)

const (
	// MinOutput is the lower bound of any emitted magnitude
	MinOutput = 0.0
	// MaxOutput is the saturation limit of the raw output and the integral
	MaxOutput = 1.0

	// integral values below this threshold are snapped to zero inside the deadband
	integralSnapThreshold = 1e-10
)

// Config holds the tuning parameters and topic labels of a controller.
// It is never modified after the controller has been created.
type Config struct {
	// topic of outbound messages
	Topic         string
	SetPointTopic string
	FireTopic     string
	FixedTopic    string

	// proportional gain
	P  float64
	// integral time, 0 disables the integral term
	Ti float64
	// derivative time
	Td float64
	// tick interval in seconds
	Dt float64

	FixedValue float64
	SetPoint   *float64
	DeadBand   float64
	MaxOutput  float64

	FireTimeout        time.Duration
	LegacyQuantization bool
}

func NewConfig(c configuration.ControllerConfig) Config {
	fireTimeout := c.FireTimeout
	if fireTimeout <= 0 {
		fireTimeout = configuration.DefaultFireTimeout
	}
	// only the integer part of the configured fixed value is used
	fixedValue := math.Trunc(c.FixedValue)
	return Config{
		Topic:              c.Topic,
		SetPointTopic:      c.SetPointTopic,
		FireTopic:          c.FireTopic,
		FixedTopic:         c.FixedTopic,
		P:                  c.Kp,
		Ti:                 c.Ki,
		Td:                 c.Kd,
		Dt:                 c.RecalcTime,
		FixedValue:         fixedValue,
		SetPoint:           c.SetPoint.Ptr(),
		DeadBand:           c.DeadBand,
		MaxOutput:          MaxOutput,
		FireTimeout:        fireTimeout,
		LegacyQuantization: c.LegacyQuantization.Get(),
	}
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Dt * float64(time.Second))
}
