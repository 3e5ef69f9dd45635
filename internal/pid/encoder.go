package pid

import "math"

// EncodeOutput maps a signed value onto the forward/reverse channel pair.
// A positive value is sent on the forward channel, zero and negative values
// on the reverse channel. The other channel always carries 0.
func EncodeOutput(topic string, value float64) OutputPair {
	on := OutboundMessage{Topic: topic, Payload: math.Max(math.Abs(value), MinOutput)}
	off := OutboundMessage{Topic: topic, Payload: 0}
	if value > 0 {
		return OutputPair{on, off}
	}
	return OutputPair{off, on}
}
