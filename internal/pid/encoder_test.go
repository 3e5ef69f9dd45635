package pid

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestEncodeOutput(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected OutputPair
	}{
		{"positive value on forward channel", 0.5, pair(0.5, 0)},
		{"negative value on reverse channel", -0.25, pair(0, 0.25)},
		{"zero", 0, pair(0, 0)},
		{"fixed negative", -30, pair(0, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// WHEN
			result := EncodeOutput("out", tt.value)

			// THEN
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, tt.value, result.Signed())
		})
	}
}
