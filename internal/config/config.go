// Package config loads service and CLI settings through viper. Every key
// has a default, so a missing config file still yields a runnable setup.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load registers defaults and reads an optional mapforge.yaml from
// configDir. A missing file is fine; a malformed one is not.
func Load(configDir string) error {
	viper.SetDefault("server.listen", ":8080")

	viper.SetDefault("db.backend", "memory")
	viper.SetDefault("db.path", "mapforge.db")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "mapforge")
	viper.SetDefault("influx.bucket", "generation")
	viper.SetDefault("influx.batchSize", 200)

	if configDir == "" {
		configDir = "."
	}
	viper.SetConfigName("mapforge")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
