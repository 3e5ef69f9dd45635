package pid

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadOf(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		kind   PayloadKind
		truthy bool
	}{
		{"float", 21.5, PayloadNumeric, true},
		{"int", 3, PayloadNumeric, true},
		{"zero", 0, PayloadNumeric, false},
		{"true", true, PayloadFlag, true},
		{"false", false, PayloadFlag, false},
		{"string", "21.5", PayloadInvalid, false},
		{"nil", nil, PayloadInvalid, false},
		{"NaN", math.NaN(), PayloadInvalid, false},
		{"infinity", math.Inf(1), PayloadInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// WHEN
			payload := PayloadOf(tt.input)

			// THEN
			assert.Equal(t, tt.kind, payload.Kind())
			assert.Equal(t, tt.truthy, payload.Truthy())
		})
	}
}

func TestPayload_UnmarshalJSON(t *testing.T) {
	// GIVEN
	data := `[{"topic": "a", "payload": 1.5}, {"topic": "b", "payload": false}, {"topic": "c", "payload": "x"}, {"topic": "d"}]`

	// WHEN
	var messages []Message
	err := json.Unmarshal([]byte(data), &messages)

	// THEN
	require.NoError(t, err)
	require.Len(t, messages, 4)

	value, ok := messages[0].Payload.AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 1.5, value)

	flag, ok := messages[1].Payload.AsFlag()
	assert.True(t, ok)
	assert.False(t, flag)

	assert.False(t, messages[2].Payload.IsValid())
	assert.False(t, messages[3].Payload.IsValid())
}

func TestPayload_MarshalJSON(t *testing.T) {
	// GIVEN
	messages := []Message{
		{Topic: "a", Payload: Numeric(2)},
		{Topic: "b", Payload: Flag(true)},
		{Topic: "c", Payload: Invalid()},
	}

	// WHEN
	data, err := json.Marshal(messages)

	// THEN
	require.NoError(t, err)
	assert.JSONEq(t, `[{"topic":"a","payload":2},{"topic":"b","payload":true},{"topic":"c","payload":null}]`, string(data))
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		text     string
		expected Payload
	}{
		{"21.5", Numeric(21.5)},
		{" -3 ", Numeric(-3)},
		{"0", Numeric(0)},
		{"true", Flag(true)},
		{"false", Flag(false)},
		{"hot", Invalid()},
		{"NaN", Invalid()},
		{"", Invalid()},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePayload(tt.text))
		})
	}
}
