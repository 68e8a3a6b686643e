// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	yaml "go.yaml.in/yaml/v3"
)

// Sink types.
const (
	SinkKmsg    = "kmsg"
	SinkJournal = "journal"
	SinkLog     = "log"
	SinkStdout  = "stdout"
)

// Logging formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the configuration of the heartbeat command. The heartbeat
// interval is a compile-time constant and cannot be configured.
type Config struct {
	Logging Logging `yaml:"logging"`
	Sink    Sink    `yaml:"sink"`

	// Listen is the optional address that serves /state and /metrics.
	// Nothing is served when this is empty.
	Listen string `yaml:"listen"`

	// MetricsNamespace prefixes every metric name. Defaults to "heartbeat".
	MetricsNamespace string `yaml:"metricsNamespace"`
}

// Logging controls the process log, which is separate from the sink that
// receives the heartbeat marker.
type Logging struct {
	// Level is a zerolog level name. Defaults to "info".
	Level string `yaml:"level"`

	// Format is either "console" or "json". Defaults to "console".
	Format string `yaml:"format"`
}

// Sink selects the log stream that receives the heartbeat marker.
type Sink struct {
	// Type is one of "kmsg", "journal", "log" or "stdout". Defaults to "kmsg".
	Type string `yaml:"type"`

	// KmsgPath overrides the kernel log device for the kmsg sink.
	KmsgPath string `yaml:"kmsgPath"`

	// Identifier is the syslog identifier used by the journal sink.
	Identifier string `yaml:"identifier"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:  zerolog.LevelInfoValue,
			Format: FormatConsole,
		},
		Sink: Sink{
			Type: SinkKmsg,
		},
	}
}

// Load reads and parses the YAML file at path. An empty path yields Default.
func Load(path string) (Config, error) {
	if len(path) == 0 {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// normalize lowercases enumerated values and fills in defaults for fields
// that were explicitly set to empty.
func (c *Config) normalize() {
	def := Default()
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if len(c.Logging.Level) == 0 {
		c.Logging.Level = def.Logging.Level
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if len(c.Logging.Format) == 0 {
		c.Logging.Format = def.Logging.Format
	}

	c.Sink.Type = strings.ToLower(strings.TrimSpace(c.Sink.Type))
	if len(c.Sink.Type) == 0 {
		c.Sink.Type = def.Sink.Type
	}

	c.Listen = strings.TrimSpace(c.Listen)
}

// Validate checks the enumerated fields of this Config.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	switch c.Logging.Format {
	case FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("logging.format: unsupported format %q", c.Logging.Format)
	}

	switch c.Sink.Type {
	case SinkKmsg, SinkJournal, SinkLog, SinkStdout:
	default:
		return fmt.Errorf("sink.type: unsupported sink %q", c.Sink.Type)
	}

	return nil
}
