package pid

import (
	"github.com/markusressel/pid2go/internal/util"
	"math"
)

// step runs one controller computation and returns the quantized output.
// The integral is only advanced if integrate is true and the output is not saturated.
// Measured, PreviousMeasured and SetPoint must be set.
func step(config Config, state *ControlState, integrate bool) float64 {
	err := *state.SetPoint - *state.Measured
	deltaError := *state.Measured - *state.PreviousMeasured

	if math.Abs(err) < config.DeadBand {
		err = 0
		if config.Ti != 0 {
			// gradually reduce the integral
			state.Integral -= state.Integral * config.P / config.Ti
			if math.Abs(state.Integral) < integralSnapThreshold {
				state.Integral = 0
			}
		}
	}

	deltaIntegral := 0.0
	if config.Ti != 0 {
		deltaIntegral = (err * config.Dt * config.P) / (config.Ti * 100)
	}

	output := (err * config.P / 100) + state.Integral

	state.Derivative = (config.Td * deltaError) / config.Dt

	if math.Abs(output) > config.MaxOutput {
		output = math.Copysign(config.MaxOutput, output)
	} else if integrate {
		state.Integral = util.CoerceSymmetric(state.Integral+deltaIntegral, config.MaxOutput)
	}

	return quantize(output, config.LegacyQuantization)
}

// quantize rounds the output to 4 decimals. The legacy variant additionally
// scales the result by 10, which existing installations depend on.
func quantize(output float64, legacy bool) float64 {
	if legacy {
		return util.RoundHalfUp(output*10000) / 1000
	}
	return util.RoundHalfUp(output*10000) / 10000
}
