package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/kgview/model"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configName = "kgview.yaml"

// newConfig sets up viper for one command invocation.
// Precedence: flags > KGVIEW_* environment > config file > defaults.
// Without an explicit file, ./kgview.yaml and <user config dir>/kgview/kgview.yaml
// are tried in that order.
func newConfig(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile == "" {
		configFile = findConfigFile()
	}

	// E.g. KGVIEW_LOG_LEVEL, KGVIEW_UNKNOWN_TYPE
	v.SetEnvPrefix("KGVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := model.DefaultConvertConfig()
	v.SetDefault("log-level", "info")
	v.SetDefault("unknown-type", defaults.UnknownType)
	v.SetDefault("placeholder-type", defaults.PlaceholderType)
	v.SetDefault("placeholder-note", defaults.PlaceholderNote)
	v.SetDefault("indent", 2)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	return v, nil
}

func findConfigFile() string {
	candidates := []string{configName}
	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(configDir, "kgview", configName))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// bindFlags lets set flags of a command override config and environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys ...string) error {
	for _, key := range keys {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %s: %w", key, err)
		}
	}
	return nil
}

// convertConfig builds the conversion settings from v.
func convertConfig(v *viper.Viper, source string) model.ConvertConfig {
	return model.ConvertConfig{
		UnknownType:     v.GetString("unknown-type"),
		PlaceholderType: v.GetString("placeholder-type"),
		PlaceholderNote: v.GetString("placeholder-note"),
		Source:          source,
	}
}

func logLevel(v *viper.Viper, verbose bool) (slog.Level, error) {
	if verbose {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log-level %q: %w", v.GetString("log-level"), err)
	}
	return level, nil
}
