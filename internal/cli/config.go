package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var configLocations = []string{"couchstorm.yaml", "couchstorm.yml", ".couchstorm.yaml", ".couchstorm.yml"}

// Config represents the couchstorm.yaml configuration structure
type Config struct {
	Version string `yaml:"version"`

	Cluster struct {
		Host     string        `yaml:"host"`
		Username string        `yaml:"username"`
		Password string        `yaml:"password"`
		Bucket   string        `yaml:"bucket"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"cluster"`

	Cache struct {
		Enabled  bool          `yaml:"enabled"`
		Address  string        `yaml:"address"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
		Prefix   string        `yaml:"prefix"`
	} `yaml:"cache"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with every default filled in
func DefaultConfig() *Config {
	config := &Config{Version: "1"}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Cluster.Host == "" {
		c.Cluster.Host = "localhost"
	}
	if c.Cluster.Bucket == "" {
		c.Cluster.Bucket = "default"
	}
	if c.Cluster.Timeout == 0 {
		c.Cluster.Timeout = 10 * time.Second
	}
	if c.Cache.Address == "" {
		c.Cache.Address = "localhost:6379"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Minute
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "couchstorm:query:"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// applyEnvironment applies overrides taken from the environment
func (c *Config) applyEnvironment() {
	if password := os.Getenv("COUCHSTORM_PASSWORD"); password != "" {
		c.Cluster.Password = password
	}
}

// LoadConfig reads the configuration at path. With an empty path the usual
// locations are searched; when none exists LoadConfig returns nil, nil.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
		if path == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvironment()
	config.applyDefaults()

	return &config, nil
}

func GetConfigPath() string {
	if path := os.Getenv("COUCHSTORM_CONFIG"); path != "" {
		return path
	}

	for _, loc := range configLocations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

func SaveConfig(config *Config, path string) error {
	if path == "" {
		path = configLocations[0]
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
