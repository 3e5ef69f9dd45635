package controller

import (
	"context"
	"github.com/asecurityteam/rolling"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/scheduler"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
	"github.com/oklog/run"
	cmap "github.com/orcaman/concurrent-map/v2"
	"sync"
	"time"
)

const (
	// number of recent outputs used for the average output
	OutputWindowSize = 10
	// number of inbound messages that can be queued per controller
	InputQueueSize = 64
)

var (
	ControllerMap = cmap.New[PidController]()
)

type PidController interface {
	GetId() string
	GetConfig() configuration.ControllerConfig
	// Run starts the controller and blocks until ctx is done
	Run(ctx context.Context) error
	// Post queues an inbound message
	Post(msg pid.Message) error
	Snapshot() Snapshot
}

// Snapshot is the published state of a running controller
type Snapshot struct {
	Id string `json:"id"`
	pid.Snapshot
	OutputAvg float64 `json:"outputAvg"`
}

type pidController struct {
	config     configuration.ControllerConfig
	loop       *scheduler.Loop
	controller *pid.Controller

	// only accessed from the loop
	outputWindow *rolling.PointPolicy

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewPidController(config configuration.ControllerConfig, output pid.OutputSink, status pid.StatusSink) PidController {
	loop := scheduler.NewLoop(InputQueueSize)
	c := &pidController{
		config:       config,
		loop:         loop,
		outputWindow: util.CreateRollingWindow(OutputWindowSize),
	}

	sched := publishingScheduler{Scheduler: loop, after: c.publish}
	recordingOutput := pid.OutputSinkFunc(func(emission pid.Emission) {
		c.outputWindow.Append(emission.Pair.Signed())
		if output != nil {
			output.Emit(emission)
		}
	})
	c.controller = pid.NewController(config.ID, pid.NewConfig(config), sched, recordingOutput, status)
	c.snapshot = Snapshot{Id: config.ID, Snapshot: c.controller.Snapshot()}
	return c
}

func (c *pidController) GetId() string {
	return c.config.ID
}

func (c *pidController) GetConfig() configuration.ControllerConfig {
	return c.config
}

func (c *pidController) Run(ctx context.Context) error {
	ui.Info("Starting controller %s (tick every %s)", c.config.ID, c.config.TickInterval())

	err := c.loop.Post(func() {
		c.controller.Start()
		c.publish()
	})
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g run.Group
	{
		g.Add(func() error {
			return c.loop.Run(loopCtx)
		}, func(err error) {
			cancel()
		})
	}
	{
		g.Add(func() error {
			select {
			case <-ctx.Done():
			case <-loopCtx.Done():
				return nil
			}
			// pending timers have to be canceled on the loop before it stops
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			return c.loop.Call(closeCtx, func() {
				c.controller.Close()
				c.publish()
			})
		}, func(err error) {
			if err != nil {
				ui.Warning("Error stopping controller %s: %v", c.config.ID, err)
			}
		})
	}

	err = g.Run()
	ui.Info("Controller %s stopped.", c.config.ID)
	return err
}

func (c *pidController) Post(msg pid.Message) error {
	return c.loop.Post(func() {
		c.controller.HandleInput(msg)
		c.publish()
	})
}

func (c *pidController) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// publish has to be called from the loop
func (c *pidController) publish() {
	snapshot := Snapshot{
		Id:        c.config.ID,
		Snapshot:  c.controller.Snapshot(),
		OutputAvg: util.GetWindowAvg(c.outputWindow),
	}
	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()
}

// publishingScheduler runs after once every scheduled task has finished
type publishingScheduler struct {
	scheduler.Scheduler
	after func()
}

func (s publishingScheduler) Schedule(delay time.Duration, fn func()) scheduler.CancelHandle {
	return s.Scheduler.Schedule(delay, func() {
		fn()
		s.after()
	})
}

func (s publishingScheduler) Every(period time.Duration, fn func()) scheduler.CancelHandle {
	return s.Scheduler.Every(period, func() {
		fn()
		s.after()
	})
}
