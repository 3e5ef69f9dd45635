package pid

import (
	"time"
)

// Message is an inbound message
type Message struct {
	Topic   string  `json:"topic"`
	Payload Payload `json:"payload"`
}

// OutboundMessage is one half of an OutputPair
type OutboundMessage struct {
	Topic   string  `json:"topic"`
	Payload float64 `json:"payload"`
}

// OutputPair is the forward (index 0) and reverse (index 1) actuator command.
// At most one of both carries a non-zero magnitude.
type OutputPair [2]OutboundMessage

func (p OutputPair) Forward() float64 {
	return p[0].Payload
}

func (p OutputPair) Reverse() float64 {
	return p[1].Payload
}

// Signed folds the pair back into a single value, negative for the reverse channel
func (p OutputPair) Signed() float64 {
	return p.Forward() - p.Reverse()
}

// Emission is an OutputPair together with the context it was emitted in
type Emission struct {
	Time time.Time  `json:"time"`
	Mode Mode       `json:"mode"`
	Pair OutputPair `json:"pair"`
}

type Fill string

const (
	FillRed   Fill = "red"
	FillGreen Fill = "green"
	FillBlue  Fill = "blue"
)

type Shape string

const (
	ShapeDot  Shape = "dot"
	ShapeRing Shape = "ring"
)

// Status is informational only, it never feeds back into the control logic
type Status struct {
	Text  string `json:"text,omitempty"`
	Fill  Fill   `json:"fill,omitempty"`
	Shape Shape  `json:"shape,omitempty"`
}

// OutputSink receives every emitted output pair
type OutputSink interface {
	Emit(emission Emission)
}

// StatusSink receives every status change
type StatusSink interface {
	SetStatus(status Status)
}

type OutputSinkFunc func(emission Emission)

func (f OutputSinkFunc) Emit(emission Emission) {
	f(emission)
}

type StatusSinkFunc func(status Status)

func (f StatusSinkFunc) SetStatus(status Status) {
	f(status)
}
