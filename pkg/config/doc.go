// Package config loads mimer's own settings.
//
// Sources, lowest precedence first: the embedded defaults.toml, the user's
// $XDG_CONFIG_HOME/mimer/config.toml (or a YAML file given explicitly),
// MIMER_* environment variables and finally command-line overrides. These
// settings tune how mimer reads association data; they never change the
// association files themselves.
package config
