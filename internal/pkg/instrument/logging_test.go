package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestHandler_CorrelationAndService(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, &Config{ServiceName: "followup"}, nil))

	ctx := SetCorrelationID(context.Background(), "cid-123")
	logger.InfoContext(ctx, "nothing to report", "variant", "daily_per_user")

	line := decodeLine(t, buf)
	assert.Equal(t, "cid-123", line["_cID"])
	assert.Equal(t, "followup", line["service"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Equal(t, "daily_per_user", line["variant"])
	assert.Contains(t, line, "ts")
}

func TestHandler_Masking(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, &Config{MaskFields: []string{"Token", " authorization "}}, nil))

	logger.Info("request received",
		"token", "secret",
		slog.Group("headers", slog.String("authorization", "Bearer abc"), slog.String("accept", "json")),
		"payload", map[string]any{"token": "x", "nested": map[string]any{"Authorization": "y", "keep": 1}},
	)

	line := decodeLine(t, buf)
	assert.Equal(t, "***", line["token"])

	headers := line["headers"].(map[string]any)
	assert.Equal(t, "***", headers["authorization"])
	assert.Equal(t, "json", headers["accept"])

	payload := line["payload"].(map[string]any)
	assert.Equal(t, "***", payload["token"])
	nested := payload["nested"].(map[string]any)
	assert.Equal(t, "***", nested["Authorization"])
	assert.EqualValues(t, 1, nested["keep"])
}

func TestHandler_WithAttrsMasked(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, &Config{MaskFields: []string{"to"}}, nil)).With("to", "ana@example.com")

	logger.Info("mail appended")

	line := decodeLine(t, buf)
	assert.Equal(t, "***", line["to"])
}

func TestHandler_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(newHandler(buf, &Config{LogLevel: "warn"}, nil))

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())

	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	//nolint:staticcheck // nil context is handled
	assert.Empty(t, GetCorrelationID(nil))
	assert.Equal(t, "abc", GetCorrelationID(SetCorrelationID(context.Background(), "abc")))
}

func TestNew_Disabled(t *testing.T) {
	ins, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "op")
	span.End()
	assert.NotNil(t, Int64Counter(ins.Meter("test"), "followup.test", "test counter"))
	assert.NoError(t, ins.Shutdown(context.Background()))
}
