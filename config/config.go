// Package config provides dt0.ConfigLookup implementations backed by viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/zoobzio/dt0"
)

// ErrNotSet indicates the requested name has no value.
var ErrNotSet = errors.New("config value not set")

type lookup struct {
	v *viper.Viper
}

// Viper returns a lookup reading dotted names (e.g. "app.key") from v.
func Viper(v *viper.Viper) dt0.ConfigLookup {
	return lookup{v: v}
}

func (l lookup) Lookup(name string) (string, error) {
	if l.v == nil || !l.v.IsSet(name) {
		return "", fmt.Errorf("%w: %s", ErrNotSet, name)
	}
	s := l.v.GetString(name)
	if s == "" {
		return "", fmt.Errorf("%w: %s", ErrNotSet, name)
	}
	return s, nil
}

// Env returns a lookup reading environment variables. "app.key" with
// prefix "DT0" is read from DT0_APP_KEY.
func Env(prefix string) dt0.ConfigLookup {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return envLookup{v: v}
}

type envLookup struct {
	v *viper.Viper
}

func (l envLookup) Lookup(name string) (string, error) {
	// AutomaticEnv keys are not reported by IsSet until bound.
	if err := l.v.BindEnv(name); err != nil {
		return "", err
	}
	return lookup(l).Lookup(name)
}

// Load reads dt0.yaml (or dt0.yml, dt0.json) from dir when present, with
// environment overrides under prefix. A missing file is not an error.
func Load(dir, prefix string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(dt0.ConfigCipherName, string(dt0.DefaultCipher))

	v.SetConfigName("dt0")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}
