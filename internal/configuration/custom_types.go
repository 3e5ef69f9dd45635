package configuration

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Optional is a generic container for optional configuration values.
type Optional[T any] struct {
	// Value holds the actual as unmarshalled.
	Value T
	// Present indicates if the value was present in the configuration.
	Present bool
	// RuntimeOverride indicates if the value was overridden at runtime.
	RuntimeOverride bool
}

// Some returns an Optional holding the given value
func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Present: true}
}

// Get returns the contained value, which is the zero value of T if the value is not set.
func (o Optional[T]) Get() T {
	return o.Value
}

// IsSet returns true if the value was configured or overridden at runtime
func (o Optional[T]) IsSet() bool {
	return o.Present || o.RuntimeOverride
}

// Ptr returns a pointer to a copy of the value, or nil if the value is not set
func (o Optional[T]) Ptr() *T {
	if !o.IsSet() {
		return nil
	}
	value := o.Value
	return &value
}

// SetOverride sets the value and marks it as overridden at runtime.
func (o *Optional[T]) SetOverride(value T) {
	o.RuntimeOverride = true
	o.Value = value
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// DefaultTrueBool is a boolean type that defaults to true if not present and not overridden.
type DefaultTrueBool struct {
	Optional[bool]
}

// Get returns the boolean value, defaulting to true if not present and not overridden.
func (b DefaultTrueBool) Get() bool {
	if !b.Present && !b.RuntimeOverride {
		return true
	}
	return b.Value
}

func (b DefaultTrueBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Get())
}

// DefaultTrueBoolHookFunc returns a mapstructure decode hook function for DefaultTrueBool.
func DefaultTrueBoolHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		// Only target our specific named type
		if t != reflect.TypeOf(DefaultTrueBool{}) {
			return data, nil
		}

		var val bool
		switch v := data.(type) {
		case bool:
			val = v
		case string:
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return data, nil
			}
			val = parsed
		default:
			return data, nil
		}

		// Return the specific type with the inner Optional initialized
		return DefaultTrueBool{
			Optional: Optional[bool]{
				Value:   val,
				Present: true,
			},
		}, nil
	}
}

// OptionalFloatHookFunc returns a mapstructure decode hook function for Optional[float64].
// A value that is explicitly null in the configuration is treated as absent.
func OptionalFloatHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		if t != reflect.TypeOf(Optional[float64]{}) {
			return data, nil
		}
		if data == nil {
			return Optional[float64]{}, nil
		}

		val, err := anyToFloat(data)
		if err != nil {
			return nil, err
		}
		return Some(val), nil
	}
}

// anyToFloat converts numeric and string values to float64.
func anyToFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	case string:
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as number: %w", val, err)
		}
		return n, nil
	case Optional[float64]:
		return val.Value, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", v)
	}
}
