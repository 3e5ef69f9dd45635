package pid

// recordMeasurement updates the measurement history with a new reading.
//
// The previous reading only moves forward when the new value differs from the
// recorded previous value, so repeated identical readings do not advance the
// history. This is not a plain two sample window.
func recordMeasurement(state *ControlState, value float64) {
	if state.PreviousMeasured == nil {
		state.PreviousMeasured = &value
	}
	if *state.PreviousMeasured != value {
		state.PreviousMeasured = state.Measured
	}
	measured := value
	state.Measured = &measured
}
