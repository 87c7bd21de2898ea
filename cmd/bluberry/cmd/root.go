// Package cmd implements the CLI commands for bluberry.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/bluberry/internal/api/client"
)

var (
	cfgFile    string
	clientFile string
)

var rootCmd = &cobra.Command{
	Use:   "bluberry",
	Short: "Price estimation service for second-hand listings",
	Long: "bluberry estimates resale prices for second-hand items. It asks the eBay\n" +
		"Browse API for comparable listings, lets an LLM reason over them, and falls\n" +
		"back to a local heuristic when upstream providers are unavailable.",
	SilenceUsage: true,
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(initClientConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "server config file path")
	rootCmd.PersistentFlags().
		StringVar(&clientFile, "client-config", "", "client config file (default $HOME/.bluberry.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		estimateCmd(),
		itemCmd(),
		statusCmd(),
		categoriesCmd(),
		versionCmd(),
	)
}

func initClientConfig() {
	if clientFile != "" {
		viper.SetConfigFile(clientFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bluberry")
	}

	viper.SetEnvPrefix("BLUBERRY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
