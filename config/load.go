package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration for the given base name, looking for
// <name>.env in ./configs and the working directory. A missing file is
// fine; environment variables and defaults still apply.
func Load(configName string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(fmt.Sprintf("%s.env", configName))
	v.SetConfigType("env")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.AutomaticEnv()

	cfg := &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Host:     v.GetString("SERVER_HOST"),
			Port:     v.GetInt("SERVER_PORT"),
			ReadOnly: v.GetBool("SERVER_READ_ONLY"),
			Watch:    v.GetBool("SERVER_WATCH"),
		},
		Ledger: LedgerConfig{
			Path:     v.GetString("LEDGER_PATH"),
			Currency: v.GetString("LEDGER_CURRENCY"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "friday")

	v.SetDefault("LOG_LEVEL", "info")

	// Bound to localhost; the server carries no authentication.
	v.SetDefault("SERVER_HOST", "127.0.0.1")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("SERVER_READ_ONLY", false)
	v.SetDefault("SERVER_WATCH", true)

	v.SetDefault("LEDGER_PATH", "")
	v.SetDefault("LEDGER_CURRENCY", "INR")
}
