// Package commands implements the CLI commands for the landbank crawler.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flispi/landbank/internal/crawler"
	"github.com/flispi/landbank/internal/logger"
	"github.com/flispi/landbank/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "landbank",
	Short: "Crawler for the Genesee County Land Bank property listings",
	Long: `Landbank crawls thelandbank.org, extracts structured parcel data
(price, size, rooms, images, coordinates) and persists it into a
relational store keyed by parcel id.

The crawl runs in two phases:

  # Phase 1: create records from the property search pages
  landbank discover --db landbank_properties.db

  # Phase 2: enrich each known parcel from its property sheet
  landbank enrich --db landbank_properties.db --geocode-key $KEY

  # Dump the store
  landbank export --db landbank_properties.db --format yaml`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.landbank.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().String("db", "landbank_properties.db", "database DSN (sqlite path or postgres DSN)")
	rootCmd.PersistentFlags().String("db-driver", "sqlite", "database driver: sqlite, postgres")
	rootCmd.PersistentFlags().String("site", crawler.DefaultSite, "site origin to crawl")
	rootCmd.PersistentFlags().String("user-agent", "", "override the crawler user agent")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("db.dsn", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("db.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	_ = viper.BindPFlag("site", rootCmd.PersistentFlags().Lookup("site"))
	_ = viper.BindPFlag("user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))
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
		viper.SetConfigName(".landbank")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LANDBANK")
	viper.AutomaticEnv()

	// The geocode key commonly lives in the provider's own env var
	_ = viper.BindEnv("geocode.api_key", "GOOGLE_MAPS_API_KEY")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// initLogger applies the global logging flags.
func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})
}

// openStore connects to the configured database. This is the one failure
// that is fatal to a whole run.
func openStore() (*store.Store, error) {
	s, err := store.Open(viper.GetString("db.driver"), viper.GetString("db.dsn"))
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return nil, err
	}
	return s, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
