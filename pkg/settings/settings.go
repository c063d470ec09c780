// Package settings loads rebarcfg's own configuration: built-in defaults,
// the settings file under the XDG config directory, then REBARCFG_
// environment variables, each layer overriding the previous one.
package settings

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/paths"
)

// EnvPrefix is the prefix of environment variables overriding settings
const EnvPrefix = "REBARCFG_"

// Settings are the tool-level knobs, as opposed to the per-project rebar
// configuration being translated.
type Settings struct {
	// RebarHome overrides the local executable cache directory.
	RebarHome string `koanf:"rebar_home"`

	// Format is the default output format: text, json or yaml.
	Format string `koanf:"format"`

	// EvalScripts controls whether rebar.config.script files are evaluated.
	EvalScripts bool `koanf:"eval_scripts"`

	// ScriptTimeout interrupts scripts that run longer than this; zero
	// disables the limit.
	ScriptTimeout time.Duration `koanf:"script_timeout"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Format:        "text",
		EvalScripts:   true,
		ScriptTimeout: 10 * time.Second,
	}
}

func defaultMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"rebar_home":     d.RebarHome,
		"format":         d.Format,
		"eval_scripts":   d.EvalScripts,
		"script_timeout": d.ScriptTimeout.String(),
	}
}

// Load assembles the effective settings.
func Load() (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrSettingsLoad, "failed to load default settings")
	}

	settingsPath := paths.SettingsPath()
	if _, err := os.Stat(settingsPath); err == nil {
		if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrSettingsLoad, "failed to load settings from %s", settingsPath)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSettingsLoad, "failed to load environment overrides")
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrSettingsLoad, "failed to unmarshal settings")
	}
	return &s, nil
}
