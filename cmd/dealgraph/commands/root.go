// Package commands implements the CLI commands for dealgraph.
package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dealgraph/dealgraph/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dealgraph",
	Short: "Graph-cached product deal search",
	Long: `Dealgraph finds product deals by searching the web, scraping candidate
pages and extracting structured product data with an LLM. Results are
persisted to Neo4j, so repeated queries are answered from the graph
without touching the network.

Examples:
  # One-shot search from the terminal
  dealgraph search "wireless headphones"

  # Run the HTTP API
  dealgraph serve --addr :8080

  # Use Anthropic instead of OpenAI for extraction
  dealgraph search "4k monitor" --provider anthropic`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.dealgraph.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only show errors")
	rootCmd.PersistentFlags().StringP("provider", "p", "", "LLM provider: openai, anthropic (auto-detects from env vars)")
	rootCmd.PersistentFlags().StringP("model", "m", "", "model name (provider-specific)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".dealgraph")
		viper.SetConfigType("yaml")
	}

	config.SetDefaults(viper.GetViper())

	// Environment variables: DEALGRAPH_NEO4J_URI, DEALGRAPH_SERVER_ADDR, ...
	viper.SetEnvPrefix("DEALGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Also honor the conventional unprefixed env vars
	_ = viper.BindEnv("neo4j.uri", "DEALGRAPH_NEO4J_URI", "NEO4J_URI")
	_ = viper.BindEnv("neo4j.username", "DEALGRAPH_NEO4J_USERNAME", "NEO4J_USERNAME")
	_ = viper.BindEnv("neo4j.password", "DEALGRAPH_NEO4J_PASSWORD", "NEO4J_PASSWORD")
	_ = viper.BindEnv("search.exa_api_key", "DEALGRAPH_SEARCH_EXA_API_KEY", "EXA_API_KEY")
	_ = viper.BindEnv("search.brave_api_key", "DEALGRAPH_SEARCH_BRAVE_API_KEY", "BRAVE_SEARCH_API_KEY")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
