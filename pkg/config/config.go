// Package config layers defaults, an optional YAML file, environment
// variables and command line flags into one Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/kass/coordcon/pkg/format"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "COORDCON_"

// Policy says what happens to a run when one record fails
type Policy string

const (
	// Abort stops at the first bad record
	Abort Policy = "abort"
	// Skip logs the bad record and carries on
	Skip Policy = "skip"
)

// Log configures the process logger
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the complete runtime configuration
type Config struct {
	Format    format.Options `yaml:"format"`
	OnError   Policy         `yaml:"on_error"`
	Workers   int            `yaml:"workers"`
	BatchSize int            `yaml:"batch_size"`
	Delimiter string         `yaml:"delimiter"`
	Log       Log            `yaml:"log"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Format:    format.DefaultOptions(),
		OnError:   Abort,
		Workers:   runtime.NumCPU(),
		BatchSize: 1024,
		Delimiter: ",",
		Log:       Log{Level: "info", Format: "console"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment. A .env file in the working directory
// is loaded first if present.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from COORDCON_* variables looked up with getenv
func (c *Config) ApplyEnv(getenv func(string) string) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"WORKERS", &c.Workers},
		{"BATCH_SIZE", &c.BatchSize},
		{"UTM_DECIMALS", &c.Format.UTMDecimals},
		{"GEO_DECIMALS", &c.Format.GeoDecimals},
	}
	for _, v := range ints {
		raw := getenv(EnvPrefix + v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, v.key, raw, err)
		}
		*v.dst = n
	}

	if v := getenv(EnvPrefix + "ON_ERROR"); v != "" {
		c.OnError = Policy(v)
	}
	if v := getenv(EnvPrefix + "DELIMITER"); v != "" {
		c.Delimiter = v
	}
	if getenv(EnvPrefix+"LOG_FORMAT") == "JSON" {
		c.Log.Format = "json"
	}
	if getenv(EnvPrefix+"DEBUG") == "YES" {
		c.Log.Level = "debug"
	}
	return nil
}

// Flag names understood by ApplyFlags
const (
	FlagOnError     = "on-error"
	FlagWorkers     = "workers"
	FlagBatchSize   = "batch-size"
	FlagUTMDecimals = "utm-decimals"
	FlagGeoDecimals = "geo-decimals"
	FlagDelimiter   = "delimiter"
	FlagVerbose     = "verbose"
)

// RegisterFlags adds the configuration flags to fs. Their defaults are only
// used for help output; ApplyFlags copies values the user actually set.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagOnError, string(d.OnError), "What to do with a bad record: abort or skip")
	fs.IntP(FlagWorkers, "w", d.Workers, "Number of worker goroutines")
	fs.Int(FlagBatchSize, d.BatchSize, "Records converted per parallel batch")
	fs.Int(FlagUTMDecimals, d.Format.UTMDecimals, "Decimals for easting and northing")
	fs.Int(FlagGeoDecimals, d.Format.GeoDecimals, "Decimals for latitude and longitude")
	fs.String(FlagDelimiter, d.Delimiter, "CSV field delimiter")
	fs.BoolP(FlagVerbose, "v", false, "Verbose output")
}

// ApplyFlags overrides fields from flags that were set on the command line
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	if fs.Changed(FlagOnError) {
		var v string
		v, err = fs.GetString(FlagOnError)
		c.OnError = Policy(v)
	}
	if err == nil && fs.Changed(FlagWorkers) {
		c.Workers, err = fs.GetInt(FlagWorkers)
	}
	if err == nil && fs.Changed(FlagBatchSize) {
		c.BatchSize, err = fs.GetInt(FlagBatchSize)
	}
	if err == nil && fs.Changed(FlagUTMDecimals) {
		c.Format.UTMDecimals, err = fs.GetInt(FlagUTMDecimals)
	}
	if err == nil && fs.Changed(FlagGeoDecimals) {
		c.Format.GeoDecimals, err = fs.GetInt(FlagGeoDecimals)
	}
	if err == nil && fs.Changed(FlagDelimiter) {
		c.Delimiter, err = fs.GetString(FlagDelimiter)
	}
	if err == nil && fs.Changed(FlagVerbose) {
		var verbose bool
		if verbose, err = fs.GetBool(FlagVerbose); verbose {
			c.Log.Level = "debug"
		}
	}
	if err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}
	return nil
}

// Validate rejects configurations the pipeline cannot run with
func (c Config) Validate() error {
	switch c.OnError {
	case Abort, Skip:
	default:
		return fmt.Errorf("invalid on_error policy %q (want %s or %s)", c.OnError, Abort, Skip)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.Format.UTMDecimals < 0 || c.Format.GeoDecimals < 0 {
		return fmt.Errorf("decimals must not be negative (utm %d, geo %d)", c.Format.UTMDecimals, c.Format.GeoDecimals)
	}
	if r, size := utf8.DecodeRuneInString(c.Delimiter); size == 0 || size != len(c.Delimiter) ||
		r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return fmt.Errorf("delimiter must be a single character other than quote, CR or LF, got %q", c.Delimiter)
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune. Call Validate first.
func (c Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
