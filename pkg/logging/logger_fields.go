package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

// Component tags the pipeline stage emitting the entry
func Component(name string) Field {
	return String("component", name)
}

// NodeID tags a graph node identity
func NodeID(id string) Field {
	return String("node_id", id)
}

// Voltage tags a voltage value in volts
func Voltage(key string, volts float64) Field {
	return Float64(key, volts)
}

// Floor tags a building floor index
func Floor(floor int) Field {
	return Int("floor", floor)
}
