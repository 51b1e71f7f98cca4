package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/provotum/mixnet-node/db"
)

const (
	defaultChainURL  = "ws://127.0.0.1:9944"
	defaultAPIHost   = "0.0.0.0"
	defaultAPIPort   = 11111
	defaultLogLevel  = "info"
	defaultLogOutput = "stdout"
	defaultDatadir   = ".mixnet" // Will be prefixed with user's home directory
)

// Config holds the application configuration
type Config struct {
	Chain   ChainConfig
	API     APIConfig
	Log     LogConfig
	Datadir string
	DBType  string `mapstructure:"dbType"`
}

// ChainConfig holds the blockchain node connection configuration
type ChainConfig struct {
	URL string `mapstructure:"url"` // Blockchain node RPC endpoint
}

// APIConfig holds the API-specific configuration
type APIConfig struct {
	Host string `mapstructure:"host"` // API host address
	Port int    `mapstructure:"port"` // API port number
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// loadConfig loads configuration from flags, environment variables, and defaults
func loadConfig() (*Config, error) {
	v := viper.New()

	// Get user's home directory for default datadir
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		userHomeDir = "."
	}
	defaultDatadirPath := filepath.Join(userHomeDir, defaultDatadir)

	v.SetDefault("chain.url", defaultChainURL)
	v.SetDefault("api.host", defaultAPIHost)
	v.SetDefault("api.port", defaultAPIPort)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)
	v.SetDefault("datadir", defaultDatadirPath)
	v.SetDefault("dbType", db.TypePebble)

	flag.StringP("chain.url", "c", defaultChainURL, "blockchain node RPC endpoint (ws, http or ipc)")
	flag.StringP("api.host", "h", defaultAPIHost, "API host")
	flag.IntP("api.port", "p", defaultAPIPort, "API port")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flag.StringP("log.output", "o", defaultLogOutput, "log output (stdout, stderr or filepath)")
	flag.StringP("datadir", "d", defaultDatadirPath, "data directory for database files")
	flag.String("dbType", db.TypePebble, fmt.Sprintf("database type (%q or %q)", db.TypePebble, db.TypeLevelDB))

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mixnet-node v%s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: mixnet-node [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  prefixed with MIXNET_, uppercased, and with dots (.) replaced by underscores (_).\n")
		fmt.Fprintf(os.Stderr, "  For example, MIXNET_CHAIN_URL or MIXNET_API_HOST\n")
	}

	flag.CommandLine.SortFlags = false
	flag.Parse()

	// Configure Viper to use environment variables
	v.SetEnvPrefix("MIXNET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// validateConfig validates the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.Chain.URL == "" {
		return fmt.Errorf("chain URL is required (use --chain.url or MIXNET_CHAIN_URL)")
	}
	if cfg.DBType != db.TypePebble && cfg.DBType != db.TypeLevelDB {
		return fmt.Errorf("invalid database type %q", cfg.DBType)
	}
	return nil
}
