package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetSecond retrieves the value associated with the key as seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with the key as minutes.
	GetMinute(key string) time.Duration

	// GetHour retrieves the value associated with the key as hours.
	GetHour(key string) time.Duration

	// GetLocation resolves the value associated with the key as an IANA time zone.
	// An empty or unknown zone yields the process local zone.
	GetLocation(key string) *time.Location
}

// NumberConfig defines helpers for retrieving numeric configuration values.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint16(key string) uint16
	GetFloat64(key string) float64
}

// Config defines a set of methods for retrieving configuration values of various types.
// Implementations handle retrieval and type conversion, returning the zero value
// when a key does not exist.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	// GetBool retrieves the value associated with the key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with the key as a string.
	GetString(key string) string

	// GetBinary retrieves the value associated with the key as a byte slice.
	// The value is stored base64 encoded.
	GetBinary(key string) []byte

	// GetArray retrieves the value associated with the key as a slice of strings.
	// The value is stored as <element1>,<element2>,... and empty elements are dropped.
	GetArray(key string) []string
}
