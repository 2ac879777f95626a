package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix marks environment overrides
const EnvPrefix = "MIMER_"

// sections whose keys may be addressed as MIMER_<SECTION>_<KEY>
var sections = []string{"scan", "watch", "output"}

// Load builds the effective configuration. userFile may be empty or point
// to a missing file; both mean "defaults and environment only".
func Load(userFile string) (*Config, error) {
	return LoadWithOverrides(userFile, nil)
}

// LoadWithOverrides is Load with a final layer of dotted keys
// ("scan.workers") that wins over every other source. The CLI passes its
// flags here.
func LoadWithOverrides(userFile string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	defaults, err := toml.Parser().Unmarshal(defaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to parse embedded defaults")
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	source, err := loadFile(k, userFile)
	if err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}
	cfg.Source = source

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("source", source).
		Int("overrides", len(overrides)).
		Msg("configuration loaded")
	return &cfg, nil
}

// loadFile merges path into k and returns it as the source. A missing
// file is skipped. Files ending in .yaml or .yml are read as YAML,
// anything else as TOML.
func loadFile(k *koanf.Koanf, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrConfigLoad, "cannot access %s", path).
			WithDetail("path", path)
	}

	var parser koanf.Parser = toml.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return "", errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return path, nil
}

// envKey maps MIMER_SCAN_CACHE_SIZE to scan.cache_size and
// MIMER_DESKTOP_SPECIFIC to desktop_specific.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}
