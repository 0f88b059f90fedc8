package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type WorkflowConfig struct {
	PhaseDelay time.Duration `mapstructure:"phase_delay"`
}

// RunnerDelay converts the configured delay for workflow.Runner, where zero
// means "use the default" and a negative value means "do not wait".
func (c WorkflowConfig) RunnerDelay() time.Duration {
	if c.PhaseDelay == 0 {
		return -1
	}
	return c.PhaseDelay
}

// BackendConfig points at the resume-editing service. An empty endpoint
// keeps the workflow simulated.
type BackendConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	Token      string        `mapstructure:"token"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RateLimit  float64       `mapstructure:"rate_limit"`
}

// Enabled reports whether submissions are forwarded to a real service.
func (c BackendConfig) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Keys lists every settable key.
var Keys = []string{
	"server.host",
	"server.port",
	"server.read_timeout",
	"server.write_timeout",
	"server.shutdown_timeout",
	"workflow.phase_delay",
	"backend.endpoint",
	"backend.token",
	"backend.timeout",
	"backend.max_retries",
	"backend.rate_limit",
	"session.ttl",
	"log.level",
	"log.format",
}

var defaults = map[string]any{
	"server.host":             "0.0.0.0",
	"server.port":             8000,
	"server.read_timeout":     "1m",
	"server.write_timeout":    "2m",
	"server.shutdown_timeout": "30s",
	"workflow.phase_delay":    "1500ms",
	"backend.endpoint":        "",
	"backend.token":           "",
	"backend.timeout":         "60s",
	"backend.max_retries":     0,
	"backend.rate_limit":      1.0,
	"session.ttl":             "30m",
	"log.level":               "info",
	"log.format":              "text",
}

var (
	configFile = ".cvlift.yaml"
	v          *viper.Viper
)

func init() {
	v = newViper()
	// Try to read config file (ignore if not exists)
	_ = v.ReadInConfig()
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetConfigFile(configFile)
	nv.SetConfigType("yaml")
	for k, d := range defaults {
		nv.SetDefault(k, d)
	}
	nv.SetEnvPrefix("CVLIFT")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	return nv
}

func Path() string {
	return configFile
}

// Load returns the merged configuration: defaults, then the config file,
// then CVLIFT_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail at first use.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server.port: %d", c.Server.Port))
	}
	if c.Workflow.PhaseDelay < 0 {
		errs = append(errs, fmt.Errorf("invalid workflow.phase_delay: %v", c.Workflow.PhaseDelay))
	}
	if c.Backend.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("invalid backend.max_retries: %d", c.Backend.MaxRetries))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log.format: %q (valid: text, json)", c.Log.Format))
	}
	return errors.Join(errs...)
}

func isKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func Get(key string) (string, error) {
	if !isKey(key) {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return v.GetString(key), nil
}

// Set stores a value in the config file. Only keys that were set explicitly
// are written; everything else keeps following the defaults.
func Set(key, value string) error {
	if !isKey(key) {
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}

	doc, err := readFile()
	if err != nil {
		return err
	}
	setNested(doc, strings.Split(key, "."), value)

	prev := v.Get(key)
	v.Set(key, value) // keep viper in sync
	if _, err := Load(); err != nil {
		v.Set(key, prev)
		return err
	}
	return writeFile(doc)
}

func All() map[string]string {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		out[k] = v.GetString(k)
	}
	return out
}

// SortedKeys returns Keys in lexical order
func SortedKeys() []string {
	keys := append([]string(nil), Keys...)
	sort.Strings(keys)
	return keys
}

func readFile() (map[string]any, error) {
	doc := map[string]any{}
	data, err := os.ReadFile(configFile)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func setNested(doc map[string]any, path []string, value string) {
	if len(path) == 1 {
		doc[path[0]] = value
		return
	}
	child, ok := doc[path[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		doc[path[0]] = child
	}
	setNested(child, path[1:], value)
}

func writeFile(doc map[string]any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return os.WriteFile(configFile, buf.Bytes(), 0644)
}

// ResetForTest resets viper for testing (only use in tests)
func ResetForTest(testPath string) {
	configFile = testPath + "/.cvlift.yaml"
	v = newViper()
	_ = v.ReadInConfig()
}
