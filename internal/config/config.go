package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"camctl/pkg/models"
)

const (
	fileName  = ".camctl"
	envPrefix = "CAMCTL"
)

// Config is the decoded view of the config file and CAMCTL_* environment.
type Config struct {
	BaseURL  string          `mapstructure:"base_url"`
	CameraID int             `mapstructure:"camera_id"`
	Timeout  time.Duration   `mapstructure:"timeout"`
	Log      LogConfig       `mapstructure:"log"`
	Watch    WatchConfig     `mapstructure:"watch"`
	Cameras  []models.Camera `mapstructure:"cameras"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type WatchConfig struct {
	Listen string `mapstructure:"listen"`
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// Search config in home directory with name ".camctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(fileName)
	}

	viper.SetDefault("log.level", "info")
	viper.SetDefault("watch.listen", ":9110")
	viper.SetDefault("timeout", "0s")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// running on flags and env only
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes the current viper state and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a request.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid base_url scheme: %q", u.Scheme)
		}
	}
	if c.CameraID < 0 {
		return fmt.Errorf("invalid camera_id: %d", c.CameraID)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// Camera returns the grid entry with the given id.
func (c *Config) Camera(id int) (models.Camera, bool) {
	for _, cam := range c.Cameras {
		if cam.ID == id {
			return cam, true
		}
	}
	return models.Camera{}, false
}

// SaveCameras rewrites the camera grid in the config file. Only the file's
// own content plus the grid is written: flag, env and default values stay out.
func SaveCameras(cameras []models.Camera) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config: %w", err)
	}
	v.Set("cameras", cameras)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	viper.Set("cameras", cameras)
	return nil
}

// configPath is the file InitConfig read, or ~/.camctl.yaml when none exists yet.
func configPath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fileName+".yaml"), nil
}
