package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ at time.Time }

func (c *fixedClock) Now() time.Time { return c.at }

type staticID struct{}

func (staticID) Generate() string { return "jti-1" }

func newSigner(t *testing.T, clk *fixedClock) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:     []byte(strings.Repeat("k", 64)),
		Issuer:     "followup",
		Audiences:  []string{"followup-api"},
		TTLMinutes: 15 * time.Minute,
		Clock:      clk,
		UUID:       staticID{},
	})
	require.NoError(t, err)
	return s
}

func TestNewHS512_ShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetric_RoundTrip(t *testing.T) {
	clk := &fixedClock{at: time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)}
	s := newSigner(t, clk)

	token, err := s.Generate("user-42", "ana@example.com")
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "jti-1", claims.ID)
	assert.True(t, claims.HasIdentity())
}

func TestSymmetric_Expired(t *testing.T) {
	clk := &fixedClock{at: time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)}
	s := newSigner(t, clk)

	token, err := s.Generate("user-42", "ana@example.com")
	require.NoError(t, err)

	clk.at = clk.at.Add(time.Hour)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetric_Tampered(t *testing.T) {
	clk := &fixedClock{at: time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)}
	s := newSigner(t, clk)

	token, err := s.Generate("user-42", "ana@example.com")
	require.NoError(t, err)

	_, err = s.Verify(token + "x")
	assert.Error(t, err)
}

func TestAuthContext(t *testing.T) {
	assert.Nil(t, GetAuth(context.Background()))

	ctx := SetAuth(context.Background(), Claims{Email: "  "})
	clm := GetAuth(ctx)
	require.NotNil(t, clm)
	assert.False(t, clm.HasIdentity())

	var none *Claims
	assert.False(t, none.HasIdentity())
}
