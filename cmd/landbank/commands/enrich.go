package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flispi/landbank/internal/crawler"
	"github.com/flispi/landbank/internal/geocode"
	"github.com/flispi/landbank/internal/logger"
	"github.com/flispi/landbank/internal/pipeline"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich stored parcels from their property sheets",
	Long: `Enrich fetches the property sheet for every parcel id in the store,
follows the featured-listing link when one exists, and merges the
extracted fields (price, rooms, lot size, images) into the stored
record. Records without coordinates are geocoded when an API key is
configured.

Parcels must already exist in the store; run 'landbank discover' first.`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	flags := enrichCmd.Flags()
	flags.Duration("delay", 200*time.Millisecond, "delay between requests")
	flags.IntP("concurrency", "c", 3, "concurrent requests")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("geocode-key", "", "Google Geocoding API key (empty disables geocoding)")
	flags.String("geocode-url", "", "override the geocoding endpoint")

	_ = viper.BindPFlag("geocode.api_key", flags.Lookup("geocode-key"))
	_ = viper.BindPFlag("geocode.base_url", flags.Lookup("geocode-url"))
}

func runEnrich(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var geocoder geocode.Geocoder
	if key := viper.GetString("geocode.api_key"); key != "" {
		geocoder = geocode.New(geocode.Config{
			APIKey:  key,
			BaseURL: viper.GetString("geocode.base_url"),
		})
	} else {
		logger.Info("no geocode key configured, skipping geocoding")
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	enricher, err := crawler.NewEnricher(crawler.Config{
		Site:        viper.GetString("site"),
		UserAgent:   viper.GetString("user_agent"),
		Delay:       delay,
		Parallelism: concurrency,
		Timeout:     timeout,
	}, st, pipeline.New(st, geocoder))
	if err != nil {
		logger.Error("invalid enrichment config", "error", err)
		return err
	}

	if _, err := enricher.Run(ctx); err != nil {
		logger.Error("enrichment pass failed", "error", err)
		return err
	}
	return nil
}
