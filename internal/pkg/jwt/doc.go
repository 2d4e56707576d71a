// Package jwt verifies the bearer tokens that identify callers of the
// on-demand endpoints. Tokens are issued elsewhere; Generate exists for tooling
// and tests.
package jwt
