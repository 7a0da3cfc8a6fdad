package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultScheme   = "chromeos"
	defaultLogLevel = "warn"
	envPrefix       = "ABCTL"
)

// Config holds abctl settings. Precedence, lowest first: defaults, config
// file, ABCTL_* environment, flags.
type Config struct {
	Scheme     string       `mapstructure:"scheme"`
	MaxSlots   int          `mapstructure:"max_slots"`
	SectorSize int64        `mapstructure:"sector_size"`
	FullSync   bool         `mapstructure:"full_sync"`
	Backup     string       `mapstructure:"backup"`
	Log        LogConfig    `mapstructure:"log"`
	Export     ExportConfig `mapstructure:"export"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// ExportConfig names the variables written by select. An empty name skips
// that variable.
type ExportConfig struct {
	SlotVar string `mapstructure:"slot_var"`
	NameVar string `mapstructure:"name_var"`
	UUIDVar string `mapstructure:"uuid_var"`
	EnvFile string `mapstructure:"env_file"`
}

// flagKeys binds config keys to the flags that override them.
var flagKeys = map[string]string{
	"scheme":          "scheme",
	"max_slots":       "max-slots",
	"sector_size":     "sector-size",
	"full_sync":       "full-sync",
	"backup":          "backup",
	"log.level":       "log-level",
	"log.format":      "log-format",
	"log.file":        "log-file",
	"export.slot_var": "slot-var",
	"export.name_var": "name-var",
	"export.uuid_var": "uuid-var",
	"export.env_file": "env-file",
}

func defaultConfig() Config {
	return Config{
		Scheme: defaultScheme,
		Log:    LogConfig{Level: defaultLogLevel, Format: "text"},
		Export: ExportConfig{SlotVar: "SLOT", NameVar: "SLOT_NAME", UUIDVar: "SLOT_UUID"},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("scheme", d.Scheme)
	v.SetDefault("max_slots", d.MaxSlots)
	v.SetDefault("sector_size", d.SectorSize)
	v.SetDefault("full_sync", d.FullSync)
	v.SetDefault("backup", d.Backup)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("export.slot_var", d.Export.SlotVar)
	v.SetDefault("export.name_var", d.Export.NameVar)
	v.SetDefault("export.uuid_var", d.Export.UUIDVar)
	v.SetDefault("export.env_file", d.Export.EnvFile)
}

// loadConfig reads configuration from file, env and the flags of cmd.
// path overrides the config file location; ABCTL_CONFIG is consulted next.
func loadConfig(cmd *cobra.Command, path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "abctl"))
		}
		v.AddConfigPath("/etc/abctl")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		for key, name := range flagKeys {
			f := cmd.Flags().Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	// A missing default config file is fine; an explicit one must exist.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
