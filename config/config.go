// Package config loads CLI and batch settings from YAML, a .env file and
// IMGSHIFT_* environment variables, in that order of precedence (lowest
// first).
package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nvr-ai/go-imgshift/images"
	"github.com/nvr-ai/go-imgshift/logging"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvQuality        = "IMGSHIFT_QUALITY"
	EnvTargetFormat   = "IMGSHIFT_TARGET_FORMAT"
	EnvNoiseIntensity = "IMGSHIFT_NOISE_INTENSITY"
	EnvEvasion        = "IMGSHIFT_EVASION"
	EnvConcurrency    = "IMGSHIFT_CONCURRENCY"
	EnvSkipKB         = "IMGSHIFT_SKIP_KB"
	EnvLogLevel       = "IMGSHIFT_LOG_LEVEL"
	EnvLogFile        = "IMGSHIFT_LOG_FILE"
)

// ErrNoConfigFile is returned by Load when the named file does not exist.
var ErrNoConfigFile = errors.New("configuration file not found")

// Config holds the conversion defaults and logging settings shared by every
// command. Fields are filled from Default, then the YAML file, then the
// environment.
type Config struct {
	TargetFormat   string  `yaml:"target_format"`
	Quality        int     `yaml:"quality"`
	Evasion        bool    `yaml:"evasion"`
	NoiseIntensity float64 `yaml:"noise_intensity"`
	// Concurrency bounds batch workers. 0 means one per CPU.
	Concurrency int `yaml:"concurrency"`
	// SkipKB leaves JPEG compression inputs below this size untouched.
	SkipKB int `yaml:"skip_kb"`

	Log logging.Config `yaml:"log"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		TargetFormat:   "jpeg",
		Quality:        85,
		Evasion:        false,
		NoiseIntensity: 0.5,
		Concurrency:    0,
		SkipKB:         0,
		Log: logging.Config{
			Level:    "info",
			Rotation: logging.DefaultFileWriterConfig(),
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cf := Default()
	if path == "" {
		return cf, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNoConfigFile, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cf); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cf, nil
}

// ApplyEnv loads envFiles into the process environment (missing files are
// skipped, variables already set win) and then applies any IMGSHIFT_*
// variables to cf.
func (cf *Config) ApplyEnv(envFiles ...string) error {
	existing := lo.Filter(envFiles, func(f string, _ int) bool {
		_, err := os.Stat(f)
		return err == nil
	})
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return errors.Wrap(err, "load env file")
		}
	}

	if v, ok := lookup(EnvTargetFormat); ok {
		cf.TargetFormat = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cf.Log.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		cf.Log.FilePath = v
	}

	var err error
	if v, ok := lookup(EnvQuality); ok {
		if cf.Quality, err = strconv.Atoi(v); err != nil {
			return errors.Wrapf(err, "parse %s", EnvQuality)
		}
	}
	if v, ok := lookup(EnvConcurrency); ok {
		if cf.Concurrency, err = strconv.Atoi(v); err != nil {
			return errors.Wrapf(err, "parse %s", EnvConcurrency)
		}
	}
	if v, ok := lookup(EnvSkipKB); ok {
		if cf.SkipKB, err = strconv.Atoi(v); err != nil {
			return errors.Wrapf(err, "parse %s", EnvSkipKB)
		}
	}
	if v, ok := lookup(EnvNoiseIntensity); ok {
		if cf.NoiseIntensity, err = strconv.ParseFloat(v, 64); err != nil {
			return errors.Wrapf(err, "parse %s", EnvNoiseIntensity)
		}
	}
	if v, ok := lookup(EnvEvasion); ok {
		if cf.Evasion, err = strconv.ParseBool(v); err != nil {
			return errors.Wrapf(err, "parse %s", EnvEvasion)
		}
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate rejects unknown target formats and pulls numeric settings into
// range: quality to [1, 100], noise intensity to [0, 1], and non-positive
// concurrency to the CPU count.
func (cf *Config) Validate() error {
	if _, ok := images.ParseFormat(cf.TargetFormat); !ok {
		return errors.Errorf("unsupported target format: %s", cf.TargetFormat)
	}

	cf.Quality = images.ClampQuality(cf.Quality)
	cf.NoiseIntensity = lo.Clamp(cf.NoiseIntensity, 0, 1)
	if cf.Concurrency <= 0 {
		cf.Concurrency = runtime.NumCPU()
	}
	cf.SkipKB = max(cf.SkipKB, 0)
	return nil
}

// SkipThreshold returns SkipKB in bytes.
func (cf *Config) SkipThreshold() int {
	return cf.SkipKB * 1024
}
