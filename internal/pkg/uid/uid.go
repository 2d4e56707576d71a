// Package uid generates identifiers: UUIDv7 strings for correlation and object
// keys, snowflake numbers for mail rows.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates roughly time-ordered numeric identifiers.
type NumberID interface {
	Generate() int64
}
