package instrument

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const maskedValue = "***"

func initLogging(cfg *Config, lp *sdklog.LoggerProvider) {
	slog.SetDefault(slog.New(newHandler(os.Stdout, cfg, lp)))
}

func newHandler(w io.Writer, cfg *Config, lp *sdklog.LoggerProvider) slog.Handler {
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(cfg.LogLevel),
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})

	if lp != nil {
		handler = &fanoutHandler{handlers: []slog.Handler{
			handler,
			otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(lp)),
		}}
	}

	return &contextHandler{
		Handler:     &maskHandler{Handler: handler, keys: buildMaskKeys(cfg.MaskFields)},
		serviceName: cfg.ServiceName,
	}
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		_, rel, found := strings.Cut(src.File, "/internal/")
		if !found {
			return slog.Attr{}
		}
		return slog.String("file", fmt.Sprintf("%s:%d", filepath.Join("internal", rel), src.Line))
	}
	return a
}

// contextHandler stamps the correlation id and service name on every record.
type contextHandler struct {
	slog.Handler
	serviceName string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" {
		r.AddAttrs(slog.String("_cID", cID))
	}
	if h.serviceName != "" {
		r.AddAttrs(slog.String("service", h.serviceName))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), serviceName: h.serviceName}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), serviceName: h.serviceName}
}

type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, 0, len(f.handlers))
	for _, h := range f.handlers {
		out = append(out, h.WithAttrs(attrs))
	}
	return &fanoutHandler{handlers: out}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, 0, len(f.handlers))
	for _, h := range f.handlers {
		out = append(out, h.WithGroup(name))
	}
	return &fanoutHandler{handlers: out}
}

// maskHandler replaces configured keys (recipient addresses, tokens) with "***".
type maskHandler struct {
	slog.Handler
	keys map[string]struct{}
}

func (h *maskHandler) Handle(ctx context.Context, r slog.Record) error {
	if len(h.keys) == 0 {
		return h.Handler.Handle(ctx, r)
	}

	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.mask(a))
		return true
	})
	return h.Handler.Handle(ctx, masked)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, h.mask(a))
	}
	return &maskHandler{Handler: h.Handler.WithAttrs(out), keys: h.keys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{Handler: h.Handler.WithGroup(name), keys: h.keys}
}

func (h *maskHandler) mask(a slog.Attr) slog.Attr {
	if _, found := h.keys[strings.ToLower(a.Key)]; found {
		return slog.String(a.Key, maskedValue)
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		out := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			out = append(out, h.mask(ga))
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if m, ok := a.Value.Any().(map[string]any); ok && a.Value.Kind() == slog.KindAny {
		return slog.Any(a.Key, h.maskMap(m))
	}

	return a
}

func (h *maskHandler) maskMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, found := h.keys[strings.ToLower(k)]; found {
			out[k] = maskedValue
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = h.maskMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func buildMaskKeys(fields []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(strings.ToLower(field)); field != "" {
			keys[field] = struct{}{}
		}
	}
	return keys
}
