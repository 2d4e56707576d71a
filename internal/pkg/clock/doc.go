// Package clock provides a tiny time abstraction.
//
// Business code depends on Clocker instead of calling time.Now() directly, so
// tests can freeze "today" with Fixed.
package clock
