package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/choirdex/notation"
	"github.com/jsphweid/choirdex/schedule"
	"gopkg.in/yaml.v3"
)

const (
	EnvHome           = "CHOIRDEX_HOME"
	EnvAddr           = "CHOIRDEX_ADDR"
	EnvDynamoEndpoint = "CHOIRDEX_DYNAMO_ENDPOINT"
	EnvConfig         = "CHOIRDEX_CONFIG"
	EnvLogLevel       = "CHOIRDEX_LOG_LEVEL"
	EnvAllowedOrigins = "CHOIRDEX_ALLOWED_ORIGINS"
)

type Dynamo struct {
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Table    string `yaml:"table"`
}

// Enabled reports whether a score index should be kept in DynamoDB.
func (d Dynamo) Enabled() bool {
	return d.Endpoint != ""
}

type Config struct {
	Home            string           `yaml:"home"`
	Addr            string           `yaml:"addr"`
	LogLevel        string           `yaml:"log_level"`
	AllowedOrigins  []string         `yaml:"allowed_origins"`
	LayoutWidth     float64          `yaml:"layout_width"`
	StaffSpacing    float64          `yaml:"staff_spacing"`
	Spacing         notation.Spacing `yaml:"spacing"`
	ArticulationGap float64          `yaml:"articulation_gap"`
	Dynamo          Dynamo           `yaml:"dynamo"`
}

func Default() Config {
	return Config{
		Home:            "./out",
		Addr:            ":8080",
		LogLevel:        "info",
		AllowedOrigins:  []string{"*"},
		LayoutWidth:     800,
		StaffSpacing:    notation.DefaultStaffSpacing,
		Spacing:         notation.DefaultSpacing(),
		ArticulationGap: schedule.DefaultArticulationGap,
		Dynamo: Dynamo{
			Region: "localhost",
			Table:  "choirdex-scores",
		},
	}
}

// Load starts from the defaults, applies the yaml file named by
// CHOIRDEX_CONFIG if any, then the environment.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfig); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile overlays the keys present in a yaml file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvHome); v != "" {
		c.Home = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvDynamoEndpoint); v != "" {
		c.Dynamo.Endpoint = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvAllowedOrigins); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.AllowedOrigins = origins
	}
}

func (c Config) ScoresDir() string {
	return filepath.Join(c.Home, "scores")
}

func (c Config) HistoryPath() string {
	return filepath.Join(c.Home, "practice_history.json")
}

func (c Config) SettingsPath() string {
	return filepath.Join(c.Home, "settings.json")
}

func (c Config) Scheduler() schedule.Scheduler {
	return schedule.Scheduler{ArticulationGap: c.ArticulationGap}
}
