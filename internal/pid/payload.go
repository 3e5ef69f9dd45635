package pid

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type PayloadKind int

const (
	// PayloadInvalid marks anything that is neither a finite number nor a boolean
	PayloadInvalid PayloadKind = iota
	PayloadNumeric
	PayloadFlag
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadNumeric:
		return "numeric"
	case PayloadFlag:
		return "flag"
	default:
		return "invalid"
	}
}

// Payload is the value of an inbound message: a number, a boolean flag, or invalid.
type Payload struct {
	kind   PayloadKind
	number float64
	flag   bool
}

// Numeric creates a numeric payload. NaN and infinite values are invalid.
func Numeric(value float64) Payload {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Invalid()
	}
	return Payload{kind: PayloadNumeric, number: value}
}

func Flag(value bool) Payload {
	return Payload{kind: PayloadFlag, flag: value}
}

func Invalid() Payload {
	return Payload{kind: PayloadInvalid}
}

// PayloadOf converts a decoded JSON or YAML value into a Payload
func PayloadOf(value interface{}) Payload {
	switch v := value.(type) {
	case Payload:
		return v
	case float64:
		return Numeric(v)
	case float32:
		return Numeric(float64(v))
	case int:
		return Numeric(float64(v))
	case int64:
		return Numeric(float64(v))
	case int32:
		return Numeric(float64(v))
	case uint64:
		return Numeric(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Invalid()
		}
		return Numeric(f)
	case bool:
		return Flag(v)
	default:
		return Invalid()
	}
}

// ParsePayload interprets a command line value: true and false are flags,
// anything that parses as a number is numeric, everything else is invalid.
func ParsePayload(text string) Payload {
	text = strings.TrimSpace(text)
	switch text {
	case "true":
		return Flag(true)
	case "false":
		return Flag(false)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Invalid()
	}
	return Numeric(value)
}

func (p Payload) Kind() PayloadKind {
	return p.kind
}

func (p Payload) IsValid() bool {
	return p.kind != PayloadInvalid
}

// AsNumber returns the numeric value and whether the payload is numeric
func (p Payload) AsNumber() (float64, bool) {
	return p.number, p.kind == PayloadNumeric
}

// AsFlag returns the boolean value and whether the payload is a flag
func (p Payload) AsFlag() (bool, bool) {
	return p.flag, p.kind == PayloadFlag
}

// Truthy reports whether the payload is a true flag or a non-zero number
func (p Payload) Truthy() bool {
	switch p.kind {
	case PayloadNumeric:
		return p.number != 0
	case PayloadFlag:
		return p.flag
	default:
		return false
	}
}

func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case PayloadNumeric:
		return json.Marshal(p.number)
	case PayloadFlag:
		return json.Marshal(p.flag)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON value, values of unsupported types result in an invalid payload
func (p *Payload) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*p = PayloadOf(value)
	return nil
}
