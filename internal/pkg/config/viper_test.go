package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  tz: Asia/Jakarta
  bad_tz: Mars/Olympus
followup:
  central_recipient: ops@example.com
  schedule:
    variants: daily_per_user, daily_summary,
    variants_list:
      - daily_per_user
      - overdue_report
  dedup:
    enabled: true
    ttl_hours: 36
  html:
    escape_values: false
jwt:
  ttl_minutes: 15
  secret_b64: aGVsbG8=
database:
  pool:
    max_conns: 8
    max_conn_idle_seconds: 30
`

func TestNewViperFromBytes(t *testing.T) {
	_, err := NewViperFromBytes("", []byte(sampleYAML))
	assert.ErrorIs(t, err, ErrConfigTypeRequired)

	_, err = NewViperFromBytes("yaml", []byte("a: [unterminated"))
	assert.Error(t, err)
}

func TestViper_Getters(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", cfg.GetString("followup.central_recipient"))
	assert.True(t, cfg.GetBool("followup.dedup.enabled"))
	assert.False(t, cfg.GetBool("followup.html.escape_values"))
	assert.Equal(t, 36*time.Hour, cfg.GetHour("followup.dedup.ttl_hours"))
	assert.Equal(t, 15*time.Minute, cfg.GetMinute("jwt.ttl_minutes"))
	assert.Equal(t, 30*time.Second, cfg.GetSecond("database.pool.max_conn_idle_seconds"))
	assert.Equal(t, int32(8), cfg.GetInt32("database.pool.max_conns"))
	assert.Equal(t, []byte("hello"), cfg.GetBinary("jwt.secret_b64"))
	assert.Nil(t, cfg.GetBinary("followup.central_recipient"))
	assert.Equal(t, "", cfg.GetString("does.not.exist"))
	assert.NoError(t, cfg.Close())
}

func TestViper_GetArray(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"daily_per_user", "daily_summary"}, cfg.GetArray("followup.schedule.variants"))
	assert.Equal(t, []string{"daily_per_user", "overdue_report"}, cfg.GetArray("followup.schedule.variants_list"))
	assert.Empty(t, cfg.GetArray("followup.missing"))
}

func TestViper_GetLocation(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "Asia/Jakarta", cfg.GetLocation("app.tz").String())
	assert.Equal(t, time.Local, cfg.GetLocation("app.bad_tz"))
	assert.Equal(t, time.Local, cfg.GetLocation("app.none"))
}

func TestNewViper(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sampleYAML), 0o600))

	cfg, err := NewViper(file)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", cfg.GetString("followup.central_recipient"))

	_, err = NewViper(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
