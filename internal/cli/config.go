package cli

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Each is also a flag name and, upper-cased with a
// LAYERSTACK_ prefix, an environment variable.
const (
	keySource  = "source"
	keyOutput  = "output"
	keyFormat  = "format"
	keyWorkers = "workers"
	keyCache   = "cache"
	keyStrict  = "strict"
)

// config layers flags over environment over layerstack.toml over defaults.
type config struct {
	v *viper.Viper
}

func newConfig() *config {
	v := viper.New()
	v.SetEnvPrefix("LAYERSTACK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyOutput, "out")
	v.SetDefault(keyFormat, []string{"json"})
	v.SetDefault(keyWorkers, 0)
	v.SetDefault(keyStrict, false)
	return &config{v: v}
}

// load reads the config file. An explicit path must exist; otherwise
// layerstack.toml is looked up in the working directory and then the
// user config directory, and a missing file is fine.
func (c *config) load(explicit string) error {
	if explicit != "" {
		c.v.SetConfigFile(explicit)
		return c.v.ReadInConfig()
	}
	c.v.SetConfigName(appName)
	c.v.SetConfigType("toml")
	c.v.AddConfigPath(".")
	if dir, err := configDir(); err == nil {
		c.v.AddConfigPath(dir)
	}
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// bind makes every known flag in fs override its configuration key.
func (c *config) bind(fs *pflag.FlagSet) error {
	for _, key := range []string{keySource, keyOutput, keyFormat, keyWorkers, keyCache, keyStrict} {
		if f := fs.Lookup(key); f != nil {
			if err := c.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// File returns the config file in use, if any.
func (c *config) File() string { return c.v.ConfigFileUsed() }

func (c *config) Sources() []string { return c.v.GetStringSlice(keySource) }
func (c *config) Output() string    { return c.v.GetString(keyOutput) }
func (c *config) Formats() []string { return parseFormats(c.v.GetStringSlice(keyFormat)) }
func (c *config) Workers() int      { return c.v.GetInt(keyWorkers) }
func (c *config) Cache() string     { return c.v.GetString(keyCache) }
func (c *config) Strict() bool      { return c.v.GetBool(keyStrict) }
