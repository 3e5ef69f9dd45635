package pid

import (
	"fmt"
	"github.com/markusressel/pid2go/internal/scheduler"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
	"time"
)

const (
	StatusTextFire             = "FIRE"
	StatusTextAwaitingSetPoint = "awaiting setpoint"
)

type Counters struct {
	Ticks    uint64 `json:"ticks"`
	Emitted  uint64 `json:"emitted"`
	Ignored  uint64 `json:"ignored"`
	Messages uint64 `json:"messages"`
}

// Controller is a single PID control loop.
//
// None of its methods are safe for concurrent use. They have to be called from
// the goroutine that executes the tasks of the given scheduler.
type Controller struct {
	name      string
	config    Config
	state     ControlState
	scheduler scheduler.Scheduler
	output    OutputSink
	status    StatusSink

	tick scheduler.CancelHandle

	lastStatus   Status
	hasStatus    bool
	lastOutput   *float64
	lastEmission *Emission
	counters     Counters
}

func NewController(name string, config Config, sched scheduler.Scheduler, output OutputSink, status StatusSink) *Controller {
	return &Controller{
		name:      name,
		config:    config,
		state:     newControlState(config),
		scheduler: sched,
		output:    output,
		status:    status,
	}
}

func (c *Controller) Config() Config {
	return c.config
}

func (c *Controller) Mode() Mode {
	return c.state.Mode()
}

// Start shows the initial status and starts the periodic computation
func (c *Controller) Start() {
	if c.state.SetPoint != nil {
		c.setStatus(Status{Text: util.FormatFloat(*c.state.SetPoint)})
	} else {
		c.setStatus(Status{})
	}
	if c.tick == nil {
		c.tick = c.scheduler.Every(c.config.TickInterval(), c.Tick)
	}
}

// Close stops the periodic computation and any pending fire timeout
func (c *Controller) Close() {
	scheduler.Cancel(c.tick)
	scheduler.Cancel(c.state.fireTimeout)
	c.state.fireTimeout = nil
}

// HandleInput routes an inbound message based on its topic
func (c *Controller) HandleInput(msg Message) {
	c.counters.Messages++
	switch {
	case matchesTopic(c.config.SetPointTopic, msg.Topic):
		c.handleSetPoint(msg.Payload)
	case matchesTopic(c.config.FireTopic, msg.Topic):
		c.handleFire(msg.Payload)
	case matchesTopic(c.config.FixedTopic, msg.Topic):
		c.handleFixed(msg.Payload)
	default:
		c.handleMeasurement(msg)
	}
}

func matchesTopic(label string, topic string) bool {
	return len(label) > 0 && label == topic
}

func (c *Controller) handleSetPoint(payload Payload) {
	value, ok := payload.AsNumber()
	if !ok {
		c.ignore("setpoint", payload)
		return
	}
	c.state.SetPoint = &value
	ui.Debug("Controller %s: setpoint changed to %s", c.name, util.FormatFloat(value))
	if c.state.Mode() == ModeNormal {
		c.setStatus(c.setPointStatus())
	}
}

func (c *Controller) handleFire(payload Payload) {
	if !payload.IsValid() {
		c.ignore("fire", payload)
		return
	}
	if payload.Truthy() {
		c.disengageFire()
	} else {
		c.engageFire()
	}
}

func (c *Controller) engageFire() {
	state := &c.state
	scheduler.Cancel(state.fireTimeout)

	state.Fire = FireState{
		Engaged:     true,
		ActivatedAt: c.scheduler.Now(),
	}
	state.clear()

	c.emit(EncodeOutput(c.config.Topic, 0))
	c.setStatus(Status{Text: StatusTextFire, Shape: ShapeDot, Fill: FillRed})
	state.fireTimeout = c.scheduler.Schedule(c.config.FireTimeout, c.expireFire)

	ui.Warning("Controller %s: fire interlock engaged, output forced to zero for up to %s", c.name, c.config.FireTimeout)
}

func (c *Controller) disengageFire() {
	state := &c.state
	scheduler.Cancel(state.fireTimeout)
	state.fireTimeout = nil

	if !state.Fire.Engaged {
		ui.Debug("Controller %s: fire interlock is not engaged, nothing to clear", c.name)
		return
	}
	state.Fire = FireState{}

	ui.Info("Controller %s: fire interlock cleared", c.name)
	c.resumeAfterFire()
}

func (c *Controller) expireFire() {
	state := &c.state
	state.fireTimeout = nil
	state.clear()
	state.Fire = FireState{}

	ui.Info("Controller %s: fire interlock expired after %s", c.name, c.config.FireTimeout)
	c.resumeAfterFire()
}

func (c *Controller) resumeAfterFire() {
	if c.state.Fixed.Activated {
		c.applyFixed()
		return
	}
	c.setStatus(c.setPointStatus())
}

func (c *Controller) handleFixed(payload Payload) {
	state := &c.state
	if value, ok := payload.AsNumber(); ok {
		state.Fixed.Value = value
	} else if activated, ok := payload.AsFlag(); ok {
		if activated && !state.Fixed.Activated {
			ui.Info("Controller %s: fixed output activated", c.name)
		} else if !activated && state.Fixed.Activated {
			ui.Info("Controller %s: fixed output deactivated", c.name)
		}
		state.Fixed.Activated = activated
	} else {
		c.ignore("fixed", payload)
		return
	}

	if state.Fire.Engaged {
		// the fire interlock suppresses the fixed output
		return
	}

	if state.Fixed.Activated {
		c.applyFixed()
	} else {
		c.setStatus(c.setPointStatus())
	}
}

func (c *Controller) applyFixed() {
	value := c.state.Fixed.Value
	c.emit(EncodeOutput(c.config.Topic, value))
	c.setStatus(Status{Text: "Fixed " + util.FormatFloat(value), Fill: FillGreen, Shape: ShapeDot})
}

func (c *Controller) handleMeasurement(msg Message) {
	value, ok := msg.Payload.AsNumber()
	if !ok {
		c.ignore(fmt.Sprintf("measurement (topic '%s')", msg.Topic), msg.Payload)
		return
	}
	recordMeasurement(&c.state, value)
}

func (c *Controller) ignore(kind string, payload Payload) {
	c.counters.Ignored++
	ui.Debug("Controller %s: ignoring %s message with %s payload", c.name, kind, payload.Kind())
}

// Tick runs the periodic computation and emits the result in normal mode
func (c *Controller) Tick() {
	c.counters.Ticks++
	state := &c.state

	if state.Measured == nil || state.PreviousMeasured == nil {
		return
	}

	mode := state.Mode()
	if state.SetPoint == nil {
		if mode == ModeNormal {
			c.setStatus(Status{Text: StatusTextAwaitingSetPoint})
		}
		return
	}

	output := step(c.config, state, mode == ModeNormal)
	state.LastTick = c.scheduler.Now()
	c.lastOutput = &output

	if mode != ModeNormal {
		return
	}

	c.emit(EncodeOutput(c.config.Topic, output))

	status := Status{
		Fill:  FillGreen,
		Shape: ShapeRing,
		Text:  "SP: " + util.FormatFloat(*state.SetPoint) + " IN: " + util.FormatFloat(*state.Measured),
	}
	if output > 0 {
		status.Fill = FillRed
	} else if output < 0 {
		status.Fill = FillBlue
	}
	c.setStatus(status)
}

func (c *Controller) emit(pair OutputPair) {
	emission := Emission{
		Time: c.scheduler.Now(),
		Mode: c.state.Mode(),
		Pair: pair,
	}
	c.counters.Emitted++
	c.lastEmission = &emission
	ui.Debug("Controller %s: emitting [%s, %s] (%s)", c.name, util.FormatFloat(pair.Forward()), util.FormatFloat(pair.Reverse()), emission.Mode)
	if c.output != nil {
		c.output.Emit(emission)
	}
}

func (c *Controller) setPointStatus() Status {
	return Status{Text: "setpoint " + util.FormatOptionalFloat(c.state.SetPoint, "unset")}
}

func (c *Controller) setStatus(status Status) {
	if c.hasStatus && c.lastStatus == status {
		return
	}
	c.lastStatus = status
	c.hasStatus = true
	if c.status != nil {
		c.status.SetStatus(status)
	}
}

// Snapshot is a copy of the observable state of a Controller
type Snapshot struct {
	Mode             Mode       `json:"mode"`
	SetPoint         *float64   `json:"setPoint"`
	Measured         *float64   `json:"measured"`
	PreviousMeasured *float64   `json:"previousMeasured"`
	Integral         float64    `json:"integral"`
	Derivative       float64    `json:"derivative"`
	LastOutput       *float64   `json:"lastOutput"`
	LastEmission     *Emission  `json:"lastEmission"`
	LastTick         *time.Time `json:"lastTick"`
	FixedValue       float64    `json:"fixedValue"`
	FixedActivated   bool       `json:"fixedActivated"`
	FireActivatedAt  *time.Time `json:"fireActivatedAt"`
	Status           Status     `json:"status"`
	Counters         Counters   `json:"counters"`
}

func (c *Controller) Snapshot() Snapshot {
	state := &c.state
	snapshot := Snapshot{
		Mode:             state.Mode(),
		SetPoint:         copyFloat(state.SetPoint),
		Measured:         copyFloat(state.Measured),
		PreviousMeasured: copyFloat(state.PreviousMeasured),
		Integral:         state.Integral,
		Derivative:       state.Derivative,
		LastOutput:       copyFloat(c.lastOutput),
		FixedValue:       state.Fixed.Value,
		FixedActivated:   state.Fixed.Activated,
		Status:           c.lastStatus,
		Counters:         c.counters,
	}
	if c.lastEmission != nil {
		emission := *c.lastEmission
		snapshot.LastEmission = &emission
	}
	if !state.LastTick.IsZero() {
		lastTick := state.LastTick
		snapshot.LastTick = &lastTick
	}
	if state.Fire.Engaged {
		activatedAt := state.Fire.ActivatedAt
		snapshot.FireActivatedAt = &activatedAt
	}
	return snapshot
}
