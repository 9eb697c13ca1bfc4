package crawler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"github.com/gocolly/colly/v2"

	"github.com/flispi/landbank/internal/logger"
	"github.com/flispi/landbank/internal/models"
	"github.com/flispi/landbank/internal/store"
)

// Creator is the subset of the property store discovery needs. Discovery is
// the sole creator of records; it never updates rows that already exist.
type Creator interface {
	FindByParcelID(ctx context.Context, parcelID string) (*models.Property, error)
	Create(ctx context.Context, p *models.Property) error
}

// DiscoverConfig holds discovery crawl settings.
type DiscoverConfig struct {
	Site      string `validate:"required,url"`
	StartPath string
	UserAgent string
	Delay     time.Duration
	Timeout   time.Duration
	MaxPages  int // 0 = follow Next links until none remain
}

// DefaultDiscoverConfig returns defaults for crawling the site's property
// search results.
func DefaultDiscoverConfig() DiscoverConfig {
	return DiscoverConfig{
		Site:      DefaultSite,
		StartPath: "/property_search.asp?stype=all",
		UserAgent: "landbank-crawler",
		Delay:     200 * time.Millisecond,
		Timeout:   30 * time.Second,
	}
}

// DiscoverStats counts outcomes of one discovery pass.
type DiscoverStats struct {
	Pages   int
	Created int
	Known   int
	Skipped int // rows with sentinel or missing parcel ids
}

// Discoverer walks the search result pages and creates a minimal record for
// every parcel not yet in the store: parcel id plus the listing columns
// (address, city, zip, property class). Detail fields stay null until an
// enrichment pass fills them.
type Discoverer struct {
	cfg     DiscoverConfig
	creator Creator
}

// NewDiscoverer validates cfg and creates a discoverer.
func NewDiscoverer(cfg DiscoverConfig, creator Creator) (*Discoverer, error) {
	def := DefaultDiscoverConfig()
	if cfg.StartPath == "" {
		cfg.StartPath = def.StartPath
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return &Discoverer{cfg: cfg, creator: creator}, nil
}

// Run crawls result pages sequentially, following the "Next" pagination
// link, and reports pass statistics.
func (d *Discoverer) Run(ctx context.Context) (*DiscoverStats, error) {
	stats := &DiscoverStats{}

	c := colly.NewCollector(colly.UserAgent(d.cfg.UserAgent))
	c.SetRequestTimeout(d.cfg.Timeout)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: d.cfg.Delay})

	c.OnResponse(func(r *colly.Response) {
		if ctx.Err() != nil {
			return
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			logger.Warn("unparseable search page", "url", r.Request.URL.String(), "error", err)
			return
		}
		stats.Pages++
		d.collectRows(ctx, doc, stats)

		if d.cfg.MaxPages > 0 && stats.Pages >= d.cfg.MaxPages {
			return
		}
		if next, ok := nextPageHref(doc); ok {
			if err := r.Request.Visit(resolveHref(d.cfg.Site, next)); err != nil {
				logger.Warn("next page request failed", "error", err)
			}
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		logger.Warn("search fetch failed", "url", r.Request.URL.String(), "error", err)
	})

	logger.Info("discovery pass starting", "site", d.cfg.Site)
	if err := c.Visit(resolveHref(d.cfg.Site, d.cfg.StartPath)); err != nil {
		return nil, err
	}
	c.Wait()

	logger.Info("discovery pass complete",
		"pages", stats.Pages,
		"created", stats.Created,
		"known", stats.Known,
		"skipped", stats.Skipped)
	return stats, ctx.Err()
}

// collectRows reads the search results table. Column order on the site is
// parcel id, address, city, zip, property class.
func (d *Discoverer) collectRows(ctx context.Context, doc *goquery.Document, stats *DiscoverStats) {
	doc.Find("table.searchresults tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return // header or spacer row
		}

		parcelID := strings.TrimSpace(cells.Eq(0).Text())
		if parcelID == "" || parcelID == "0" || parcelID == "None" {
			stats.Skipped++
			return
		}

		if _, err := d.creator.FindByParcelID(ctx, parcelID); err == nil {
			stats.Known++
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			logger.Error("store lookup failed", "parcel_id", parcelID, "error", err)
			return
		}

		p := &models.Property{
			ParcelID:      parcelID,
			Address:       strings.TrimSpace(cells.Eq(1).Text()),
			City:          strings.TrimSpace(cells.Eq(2).Text()),
			Zip:           strings.TrimSpace(cells.Eq(3).Text()),
			PropertyClass: strings.TrimSpace(cells.Eq(4).Text()),
		}
		if err := d.creator.Create(ctx, p); err != nil {
			logger.Error("create failed", "parcel_id", parcelID, "error", err)
			return
		}
		logger.Debug("parcel discovered", "parcel_id", parcelID, "address", p.Address)
		stats.Created++
	})
}

// nextPageHref finds the pagination link to the next results page.
func nextPageHref(doc *goquery.Document) (string, bool) {
	var href string
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), "Next") {
			return true
		}
		if h, ok := s.Attr("href"); ok && h != "" && !strings.HasPrefix(h, "#") {
			href = h
			return false
		}
		return true
	})
	return href, href != ""
}
