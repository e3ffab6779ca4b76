package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application, loaded from file or
// environment variables.
type Config struct {
	Environment   string        `mapstructure:"ENVIRONMENT"`
	ServerAddress string        `mapstructure:"SERVER_ADDRESS"`
	DBSource      string        `mapstructure:"DB_SOURCE"`
	DataDir       string        `mapstructure:"DATA_DIR"`
	SourceURL     string        `mapstructure:"SOURCE_URL"`
	FetchTimeout  time.Duration `mapstructure:"FETCH_TIMEOUT"`
}

// LoadConfig reads configuration from app.env in the given path, with
// environment variables taking precedence over file values.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("SOURCE_URL", "https://geo.datav.aliyun.com/areas_v3/bound/all.json")
	viper.SetDefault("FETCH_TIMEOUT", 30*time.Second)

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		// No config file is fine; defaults + env vars apply.
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
