package statistics

import (
	"github.com/markusressel/pid2go/internal/controller"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

var modes = []pid.Mode{pid.ModeNormal, pid.ModeFixed, pid.ModeFire}

type ControllerCollector struct {
	controllers []controller.PidController

	setPoint   *prometheus.Desc
	measured   *prometheus.Desc
	integral   *prometheus.Desc
	derivative *prometheus.Desc
	output     *prometheus.Desc
	outputAvg  *prometheus.Desc
	forward    *prometheus.Desc
	reverse    *prometheus.Desc
	mode       *prometheus.Desc

	ticks    *prometheus.Desc
	emitted  *prometheus.Desc
	ignored  *prometheus.Desc
	messages *prometheus.Desc
}

func NewControllerCollector(controllers []controller.PidController) *ControllerCollector {
	return &ControllerCollector{
		controllers: controllers,
		setPoint: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "setpoint"),
			"Current setpoint of the controller",
			[]string{"id"}, nil,
		),
		measured: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "measured"),
			"Last measurement received by the controller",
			[]string{"id"}, nil,
		),
		integral: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "integral"),
			"Accumulated integral term",
			[]string{"id"}, nil,
		),
		derivative: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "derivative"),
			"Last computed derivative term",
			[]string{"id"}, nil,
		),
		output: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "output"),
			"Last computed signed output",
			[]string{"id"}, nil,
		),
		outputAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "output_avg"),
			"Average of the recently emitted signed outputs",
			[]string{"id"}, nil,
		),
		forward: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "forward"),
			"Last emitted forward channel magnitude",
			[]string{"id"}, nil,
		),
		reverse: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "reverse"),
			"Last emitted reverse channel magnitude",
			[]string{"id"}, nil,
		),
		mode: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "mode"),
			"Governing mode of the controller, 1 for the active mode",
			[]string{"id", "mode"}, nil,
		),
		ticks: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "ticks_total"),
			"Number of periodic computations",
			[]string{"id"}, nil,
		),
		emitted: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "emitted_total"),
			"Number of emitted output pairs",
			[]string{"id"}, nil,
		),
		ignored: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "ignored_total"),
			"Number of ignored inbound messages",
			[]string{"id"}, nil,
		),
		messages: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "messages_total"),
			"Number of inbound messages",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.setPoint
	ch <- collector.measured
	ch <- collector.integral
	ch <- collector.derivative
	ch <- collector.output
	ch <- collector.outputAvg
	ch <- collector.forward
	ch <- collector.reverse
	ch <- collector.mode
	ch <- collector.ticks
	ch <- collector.emitted
	ch <- collector.ignored
	ch <- collector.messages
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, contr := range collector.controllers {
		snapshot := contr.Snapshot()
		id := snapshot.Id

		if snapshot.SetPoint != nil {
			ch <- prometheus.MustNewConstMetric(collector.setPoint, prometheus.GaugeValue, *snapshot.SetPoint, id)
		}
		if snapshot.Measured != nil {
			ch <- prometheus.MustNewConstMetric(collector.measured, prometheus.GaugeValue, *snapshot.Measured, id)
		}
		ch <- prometheus.MustNewConstMetric(collector.integral, prometheus.GaugeValue, snapshot.Integral, id)
		ch <- prometheus.MustNewConstMetric(collector.derivative, prometheus.GaugeValue, snapshot.Derivative, id)
		if snapshot.LastOutput != nil {
			ch <- prometheus.MustNewConstMetric(collector.output, prometheus.GaugeValue, *snapshot.LastOutput, id)
		}
		ch <- prometheus.MustNewConstMetric(collector.outputAvg, prometheus.GaugeValue, snapshot.OutputAvg, id)
		if snapshot.LastEmission != nil {
			ch <- prometheus.MustNewConstMetric(collector.forward, prometheus.GaugeValue, snapshot.LastEmission.Pair.Forward(), id)
			ch <- prometheus.MustNewConstMetric(collector.reverse, prometheus.GaugeValue, snapshot.LastEmission.Pair.Reverse(), id)
		}
		for _, mode := range modes {
			value := 0.0
			if snapshot.Mode == mode {
				value = 1
			}
			ch <- prometheus.MustNewConstMetric(collector.mode, prometheus.GaugeValue, value, id, mode.String())
		}

		counters := snapshot.Counters
		ch <- prometheus.MustNewConstMetric(collector.ticks, prometheus.CounterValue, float64(counters.Ticks), id)
		ch <- prometheus.MustNewConstMetric(collector.emitted, prometheus.CounterValue, float64(counters.Emitted), id)
		ch <- prometheus.MustNewConstMetric(collector.ignored, prometheus.CounterValue, float64(counters.Ignored), id)
		ch <- prometheus.MustNewConstMetric(collector.messages, prometheus.CounterValue, float64(counters.Messages), id)
	}
}
