package ded

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "DED"

// Settings are the persistent defaults read from the config file and DED_*
// environment variables. Command-line flags take precedence over them.
type Settings struct {
	Editor    string `mapstructure:"editor"`
	TmpPath   string `mapstructure:"tmp_path"`
	All       bool   `mapstructure:"all"`
	Verbose   bool   `mapstructure:"verbose"`
	DryRun    bool   `mapstructure:"dry_run"`
	HashWidth int    `mapstructure:"hash_width" validate:"gte=1,lte=40"`
	Only      string `mapstructure:"only" validate:"omitempty,oneof=dirs files"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("editor", "")
	v.SetDefault("tmp_path", DefaultScratchDir())
	v.SetDefault("all", false)
	v.SetDefault("verbose", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("hash_width", DefaultHashWidth)
	v.SetDefault("only", "")
	v.SetDefault("log_level", "warn")
}

// LoadSettings reads settings from path, or from config.yaml in the default
// config directory when path is empty. A missing default file is not an error.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	s.LogLevel = strings.ToLower(s.LogLevel)
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return fmt.Errorf("invalid config: %s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return fmt.Errorf("invalid config: %w", err)
}

// ConfigDir is $XDG_CONFIG_HOME/ded, falling back to ~/.config/ded.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ded")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "ded")
}
