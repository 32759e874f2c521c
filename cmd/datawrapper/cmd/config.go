package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmcleod/datawrapper/crypto"
)

const (
	envPrefix     = "DATAWRAPPER"
	envPassphrase = envPrefix + "_PASSPHRASE"

	defaultNamespace     = "default"
	defaultMaxSecretSize = 64 * 1024
)

// config is the resolved CLI configuration. Precedence is flag, then
// DATAWRAPPER_* environment, then the config file, then defaults.
type config struct {
	DB            string `mapstructure:"db"`
	Namespace     string `mapstructure:"namespace"`
	KDFProfile    string `mapstructure:"kdf_profile"`
	MaxSecretSize int    `mapstructure:"max_secret_size"`
	Verbose       bool   `mapstructure:"verbose"`
}

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"db":          "db",
	"namespace":   "namespace",
	"kdf_profile": "kdf-profile",
	"verbose":     "verbose",
}

func defaultDBPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "datawrapper", "records.db")
	}
	return "datawrapper.db"
}

func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", defaultDBPath())
	v.SetDefault("namespace", defaultNamespace)
	v.SetDefault("kdf_profile", crypto.KDFProfileModerate)
	v.SetDefault("max_secret_size", defaultMaxSecretSize)
	v.SetDefault("verbose", false)

	for key, name := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("binding flag %s: %w", name, err)
		}
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *config) validate() error {
	var problems []string
	if c.DB == "" {
		problems = append(problems, "db must not be empty")
	}
	if c.Namespace == "" {
		problems = append(problems, "namespace must not be empty")
	}
	if _, err := crypto.Argon2idProfile(c.KDFProfile); err != nil {
		problems = append(problems, err.Error())
	}
	if c.MaxSecretSize < 1 {
		problems = append(problems, fmt.Sprintf("max_secret_size must be positive, got %d", c.MaxSecretSize))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
