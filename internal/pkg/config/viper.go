package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ErrConfigTypeRequired is returned by NewViperFromBytes when no format is given.
var ErrConfigTypeRequired = errors.New("config type is required")

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper loads configuration from the given file path and watches it for changes.
//
// The config file type is inferred by Viper from the filename extension.
func NewViper(pathFile string) (*Viper, error) {
	v := viper.New()

	filename := path.Base(pathFile)
	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(filename, path.Ext(filename)))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(ev fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("config reload failed", "path", pathFile, "op", ev.Op.String(), "error", err)
			return
		}
		slog.Info("config success reloaded", "path", pathFile)
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigTypeRequired
	}

	v := viper.New()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

func (vc *Viper) GetInt32(key string) int32 {
	return vc.v.GetInt32(key)
}

func (vc *Viper) GetInt64(key string) int64 {
	return vc.v.GetInt64(key)
}

func (vc *Viper) GetUint16(key string) uint16 {
	return uint16(vc.v.GetUint(key))
}

func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

func (vc *Viper) GetHour(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Hour
}

func (vc *Viper) GetLocation(key string) *time.Location {
	name := strings.TrimSpace(vc.v.GetString(key))
	if name == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("unknown time zone in config, falling back to local", "key", key, "value", name, "error", err)
		return time.Local
	}

	return loc
}

// GetBinary returns the value for key decoded from base64, or nil when it is not valid base64.
func (vc *Viper) GetBinary(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(vc.v.GetString(key))
	if err != nil {
		return nil
	}

	return data
}

func (vc *Viper) GetArray(key string) []string {
	raw := vc.v.GetString(key)
	if strings.TrimSpace(raw) == "" {
		// yaml sequences are not flattened by GetString
		raw = strings.Join(vc.v.GetStringSlice(key), ",")
	}

	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// Close implements io.Closer. Viper holds no resources.
func (vc *Viper) Close() error {
	return nil
}
