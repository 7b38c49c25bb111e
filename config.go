package lamp

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BuildConfig controls build-time framework behavior (spec §3.1 "added"):
// the dispatcher's max-failed-attempts bound, whether literal matching is
// case-sensitive, and the reentrancy depth limit. DefaultCooldownPrecision
// is carried and loaded from YAML, but nothing in the framework reads it;
// cooldown durations are used as given. Mirrors the teacher's
// options-struct-into-constructor pattern (`planner.Config`).
type BuildConfig struct {
	MaxFailedAttempts        int           `yaml:"maxFailedAttempts"`
	DefaultCooldownPrecision time.Duration `yaml:"defaultCooldownPrecision"`
	CaseSensitiveLiterals    bool          `yaml:"caseSensitiveLiterals"`
	MaxReentrancyDepth       int           `yaml:"maxReentrancyDepth"`
}

// DefaultBuildConfig is used when Builder.Build is called without an
// explicit config.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		MaxFailedAttempts:        0, // unlimited, bounded by tree fanout (spec §4.D)
		DefaultCooldownPrecision: time.Second,
		CaseSensitiveLiterals:    false,
		MaxReentrancyDepth:       32,
	}
}

// LoadBuildConfig reads a BuildConfig from a YAML file at path, starting
// from DefaultBuildConfig for any field the file omits.
func LoadBuildConfig(path string) (BuildConfig, error) {
	cfg := DefaultBuildConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
