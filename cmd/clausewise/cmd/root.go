package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/clausewise/clausewise/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "clausewise",
	Short: "ClauseWise: a Terms-of-Service risk analyzer",
	Long: `ClauseWise fetches or accepts a Terms of Service document, extracts
risk-relevant clauses, scores them against a personal risk-tolerance profile,
and tracks document changes across analyses.

Commands:
  serve    Start the HTTP API server
  mcp      Start the MCP server for tool-based access
  analyze  Analyze a document once and print the findings
  diff     Compare a document against its stored snapshot`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/clausewise")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// CLAUSEWISE_LLM_BASE_URL -> llm.base_url
	viper.SetEnvPrefix("CLAUSEWISE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars
	viper.BindEnv("server.addr", "CLAUSEWISE_SERVER_ADDR")
	viper.BindEnv("llm.enabled", "CLAUSEWISE_LLM_ENABLED")
	viper.BindEnv("llm.base_url", "CLAUSEWISE_LLM_BASE_URL")
	viper.BindEnv("llm.socket_path", "CLAUSEWISE_LLM_SOCKET_PATH")
	viper.BindEnv("llm.model", "CLAUSEWISE_LLM_MODEL")
	viper.BindEnv("storage.endpoint", "CLAUSEWISE_STORAGE_ENDPOINT")
	viper.BindEnv("storage.bucket", "CLAUSEWISE_STORAGE_BUCKET")
	viper.BindEnv("storage.access_key_id", "CLAUSEWISE_STORAGE_ACCESS_KEY_ID")
	viper.BindEnv("storage.secret_access_key", "CLAUSEWISE_STORAGE_SECRET_ACCESS_KEY")
	viper.BindEnv("elasticsearch.addresses", "CLAUSEWISE_ELASTICSEARCH_ADDRESSES")
	viper.BindEnv("elasticsearch.index", "CLAUSEWISE_ELASTICSEARCH_INDEX")
	viper.BindEnv("elasticsearch.username", "CLAUSEWISE_ELASTICSEARCH_USERNAME")
	viper.BindEnv("elasticsearch.password", "CLAUSEWISE_ELASTICSEARCH_PASSWORD")
	viper.BindEnv("fetcher.timeout", "CLAUSEWISE_FETCHER_TIMEOUT")
	viper.BindEnv("fetcher.user_agent", "CLAUSEWISE_FETCHER_USER_AGENT")
	viper.BindEnv("mcp.name", "CLAUSEWISE_MCP_NAME")
	viper.BindEnv("mcp.version", "CLAUSEWISE_MCP_VERSION")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Handle special case: addresses as comma-separated string from env
	if addrs := os.Getenv("CLAUSEWISE_ELASTICSEARCH_ADDRESSES"); addrs != "" {
		cfg.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}
}
