package cmd

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the runtime settings shared by the commands.
type Config struct {
	OutputDir       string `mapstructure:"output_dir"`
	ReadChunkSize   int    `mapstructure:"read_chunk_size"`
	VerifyOnExtract bool   `mapstructure:"verify_on_extract"`
}

// LoadConfig loads nxfs configuration using Viper. A missing config file is
// not an error; defaults apply.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("nxfs-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.nxfs")
	viper.AddConfigPath("/etc/nxfs")

	// Set defaults
	viper.SetDefault("output_dir", "./extracted")
	viper.SetDefault("read_chunk_size", 1024*1024)
	viper.SetDefault("verify_on_extract", true)

	// Allow environment variables
	viper.SetEnvPrefix("NXFS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
