package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flispi/landbank/internal/crawler"
	"github.com/flispi/landbank/internal/logger"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover parcels from the property search pages",
	Long: `Discover walks the site's search result pages and creates a record
for every parcel not yet in the store, with its listing columns
(address, city, zip, property class). Existing records are never
touched; enrichment fills in the rest.`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	flags := discoverCmd.Flags()
	flags.String("start-path", "", "search results path to start from")
	flags.Duration("delay", 200*time.Millisecond, "delay between requests")
	flags.Int("max-pages", 0, "max result pages to crawl (0=all)")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	startPath, _ := cmd.Flags().GetString("start-path")
	delay, _ := cmd.Flags().GetDuration("delay")
	maxPages, _ := cmd.Flags().GetInt("max-pages")

	discoverer, err := crawler.NewDiscoverer(crawler.DiscoverConfig{
		Site:      viper.GetString("site"),
		StartPath: startPath,
		UserAgent: viper.GetString("user_agent"),
		Delay:     delay,
		MaxPages:  maxPages,
	}, st)
	if err != nil {
		logger.Error("invalid discovery config", "error", err)
		return err
	}

	if _, err := discoverer.Run(ctx); err != nil {
		logger.Error("discovery pass failed", "error", err)
		return err
	}
	return nil
}
