// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/luxfi/flattener/pkg/constants"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrUnknownKey = errors.New("unknown config key")

// Config layers flags over environment (FLATTENER_*) over the config file
// over defaults.
type Config struct {
	fs   afero.Fs
	v    *viper.Viper
	path string
}

func New(fs afero.Fs) *Config {
	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range knownKeys {
		v.SetDefault(k.Name, k.Default)
	}
	return &Config{fs: fs, v: v}
}

// DefaultPath returns the config file location inside baseDir.
func DefaultPath(baseDir string) string {
	return filepath.Join(baseDir, constants.DefaultConfigFileName+"."+constants.DefaultConfigFileType)
}

// Load reads the config file at path. A missing file is not an error.
func (c *Config) Load(path string) error {
	c.path = path
	c.v.SetConfigFile(path)
	exists, err := afero.Exists(c.fs, path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}

// BindFlag lets an explicitly set flag override the key.
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for %s", key)
	}
	return c.v.BindPFlag(key, flag)
}

func (c *Config) GetConfigStringValue(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetConfigBoolValue(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetConfigIntValue(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetConfigStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

func (c *Config) ConfigValueIsSet(key string) bool {
	return c.v.IsSet(key)
}

func (c *Config) ConfigFileExists() bool {
	exists, err := afero.Exists(c.fs, c.path)
	return err == nil && exists
}

// GetConfigPath returns the path to the configuration file
func (c *Config) GetConfigPath() string {
	return c.path
}

// SetConfigValue validates value for key and persists it to the config file.
// Only keys present in the file are written, never defaults or env values.
func (c *Config) SetConfigValue(key, value string) error {
	k, ok := LookupKey(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	parsed, err := k.Parse(value)
	if err != nil {
		return err
	}
	if c.path == "" {
		return errors.New("no config file location set")
	}

	file := viper.New()
	file.SetFs(c.fs)
	file.SetConfigFile(c.path)
	if c.ConfigFileExists() {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", c.path, err)
		}
	}
	file.Set(key, parsed)
	if err := c.fs.MkdirAll(filepath.Dir(c.path), constants.UserOnlyPerms); err != nil {
		return err
	}
	if err := file.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", c.path, err)
	}
	// reload rather than Set, so explicitly set flags keep precedence
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config %s: %w", c.path, err)
	}
	return nil
}

// Setting is a resolved key and its effective value.
type Setting struct {
	Key   string
	Value string
}

// Settings returns every supported key with its effective value.
func (c *Config) Settings() []Setting {
	settings := make([]Setting, 0, len(knownKeys))
	for _, k := range knownKeys {
		settings = append(settings, Setting{Key: k.Name, Value: c.Format(k.Name)})
	}
	return settings
}

// Format renders the effective value of key for display.
func (c *Config) Format(key string) string {
	k, ok := LookupKey(key)
	if ok && k.Kind == KindList {
		return strings.Join(c.v.GetStringSlice(key), ",")
	}
	return c.v.GetString(key)
}
