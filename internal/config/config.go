// Package config loads the timedesk configuration from the user config
// directory, creating a default file on first run.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/xfce0/timedesk/internal/db"
)

// Config holds the application configuration.
type Config struct {
	DataDir       string
	DBPath        string
	ListenAddr    string
	Notifications bool
	// ReminderAfter is how long a timer may run before the panel sends a
	// "still running" reminder.
	ReminderAfter time.Duration
	// UserName attributes entries started from the local panel.
	UserName string
	// DefaultRate is the hourly rate applied to billable timers started
	// from the local panel.
	DefaultRate float64
}

// Path returns the config file location inside the user config directory.
func Path() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting user home directory: %w", err)
		}
		if runtime.GOOS == "windows" {
			configHome = filepath.Join(homeDir, "AppData", "Roaming")
		} else {
			configHome = filepath.Join(homeDir, ".config")
		}
	}
	return filepath.Join(configHome, "timedesk", "timedesk.yml"), nil
}

// Load reads the config file, writing one with defaults when missing.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	v.SetDefault("data_dir", db.DefaultDataDir())
	v.SetDefault("listen_addr", "127.0.0.1:8742")
	v.SetDefault("notifications", true)
	v.SetDefault("reminder_after_minutes", 240)
	v.SetDefault("user_name", defaultUserName())
	v.SetDefault("default_rate", 0)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			if err := v.WriteConfigAs(path); err != nil {
				return nil, fmt.Errorf("error creating config file: %w", err)
			}
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	dataDir := v.GetString("data_dir")
	return &Config{
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, "timedesk.db"),
		ListenAddr:    v.GetString("listen_addr"),
		Notifications: v.GetBool("notifications"),
		ReminderAfter: time.Duration(v.GetInt("reminder_after_minutes")) * time.Minute,
		UserName:      v.GetString("user_name"),
		DefaultRate:   v.GetFloat64("default_rate"),
	}, nil
}

func defaultUserName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "user"
}
