package pid

import (
	"github.com/markusressel/pid2go/internal/scheduler"
	"time"
)

var testStart = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

type recorder struct {
	emissions []Emission
	statuses  []Status
}

func (r *recorder) Emit(emission Emission) {
	r.emissions = append(r.emissions, emission)
}

func (r *recorder) SetStatus(status Status) {
	r.statuses = append(r.statuses, status)
}

func (r *recorder) lastStatus() Status {
	if len(r.statuses) <= 0 {
		return Status{}
	}
	return r.statuses[len(r.statuses)-1]
}

func (r *recorder) lastPair() OutputPair {
	return r.emissions[len(r.emissions)-1].Pair
}

func floatPtr(value float64) *float64 {
	return &value
}

func createConfig() Config {
	return Config{
		Topic:              "out",
		SetPointTopic:      "setpoint",
		FireTopic:          "fire",
		FixedTopic:         "fixed",
		P:                  50,
		Ti:                 0,
		Td:                 0,
		Dt:                 1,
		SetPoint:           floatPtr(100),
		DeadBand:           0,
		MaxOutput:          MaxOutput,
		FireTimeout:        900 * time.Second,
		LegacyQuantization: true,
	}
}

func createController(config Config) (*Controller, *scheduler.Manual, *recorder) {
	manual := scheduler.NewManual(testStart)
	rec := &recorder{}
	controller := NewController("test", config, manual, rec, rec)
	controller.Start()
	return controller, manual, rec
}

func measurement(value float64) Message {
	return Message{Topic: "sensor", Payload: Numeric(value)}
}

func pair(forward float64, reverse float64) OutputPair {
	return OutputPair{
		{Topic: "out", Payload: forward},
		{Topic: "out", Payload: reverse},
	}
}
