package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"tapedeck/audio"
)

const appName = "tapedeck"

// Config is the application configuration
type Config struct {
	Volume           float64       `mapstructure:"volume"`            // initial player volume 0.0-1.0
	MusicDir         string        `mapstructure:"music_dir"`         // folder offered by the open dialog
	RecordingsDir    string        `mapstructure:"recordings_dir"`    // folder offered by the save dialog
	ProgressInterval time.Duration `mapstructure:"progress_interval"` // player poll interval
	CaptureInterval  time.Duration `mapstructure:"capture_interval"`  // recorder capture tick
	LogFile          string        `mapstructure:"log_file"`
	LogLevel         string        `mapstructure:"log_level"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Volume:           0.5,
		MusicDir:         filepath.Join(home, "Music"),
		RecordingsDir:    home,
		ProgressInterval: time.Second,
		CaptureInterval:  time.Millisecond,
		LogFile:          filepath.Join(configDir(), appName+".log"),
		LogLevel:         "info",
	}
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName)
}

// DefaultPath returns the config file location, creating its directory
func DefaultPath() (string, error) {
	dir := configDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func newViper(path string) *viper.Viper {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(appName)
	v.AutomaticEnv()

	v.SetDefault("volume", def.Volume)
	v.SetDefault("music_dir", def.MusicDir)
	v.SetDefault("recordings_dir", def.RecordingsDir)
	v.SetDefault("progress_interval", def.ProgressInterval)
	v.SetDefault("capture_interval", def.CaptureInterval)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	return v
}

// Load reads the config file at path. A missing file yields the defaults.
// On a malformed file the defaults are returned together with the error.
func Load(path string) (Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	def := DefaultConfig()
	c.Volume = audio.ClampVolume(c.Volume)
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = def.ProgressInterval
	}
	if c.CaptureInterval <= 0 {
		c.CaptureInterval = def.CaptureInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// SaveMusicDir remembers the last loaded music folder. Other keys already in
// the file are preserved.
func SaveMusicDir(path, dir string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.Set("music_dir", dir)
	return v.WriteConfigAs(path)
}
