package crawler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"github.com/gocolly/colly/v2"

	"github.com/flispi/landbank/internal/extract"
	"github.com/flispi/landbank/internal/logger"
	"github.com/flispi/landbank/internal/models"
	"github.com/flispi/landbank/internal/store"
)

// Request context keys. The partial overlay rides the request context from
// the summary callback to the detail callback, so concurrently in-flight
// parcels share no mutable state.
const (
	ctxParcelID = "parcel_id"
	ctxOverlay  = "overlay"
)

// ParcelSource enumerates the parcel ids to enrich.
type ParcelSource interface {
	ParcelIDs(ctx context.Context) ([]string, error)
}

// Applier commits a finished overlay for one parcel.
type Applier interface {
	Upsert(ctx context.Context, ov *models.Overlay) error
}

// Config holds enrichment crawl settings.
type Config struct {
	Site        string `validate:"required,url"`
	UserAgent   string
	Delay       time.Duration
	Parallelism int
	Timeout     time.Duration
}

// DefaultConfig returns conservative crawl defaults for the landbank site.
func DefaultConfig() Config {
	return Config{
		Site:        DefaultSite,
		UserAgent:   "landbank-crawler",
		Delay:       200 * time.Millisecond,
		Parallelism: 3,
		Timeout:     30 * time.Second,
	}
}

// Stats counts per-record outcomes of one enrichment pass.
type Stats struct {
	mu        sync.Mutex
	Enriched  int // overlays committed
	Abandoned int // extraction fatal errors
	Dropped   int // overlays for parcels missing from the store
	Failed    int // fetch or store errors
}

func (s *Stats) add(field *int) {
	s.mu.Lock()
	*field++
	s.mu.Unlock()
}

// Enricher is the discovery driver for the enrichment phase: one summary
// fetch per stored parcel id, chaining to the featured detail page when the
// summary links one. Failures are isolated per record; a failed fetch or a
// bad detail line costs only that parcel its enrichment for the pass.
type Enricher struct {
	cfg     Config
	parcels ParcelSource
	applier Applier
}

// NewEnricher validates cfg and creates an enricher.
func NewEnricher(cfg Config, parcels ParcelSource, applier Applier) (*Enricher, error) {
	def := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return &Enricher{cfg: cfg, parcels: parcels, applier: applier}, nil
}

// Run enriches every stored parcel once and reports pass statistics. Only a
// failure to read the parcel id list is returned as an error; everything
// downstream is per-record and logged.
func (e *Enricher) Run(ctx context.Context) (*Stats, error) {
	ids, err := e.parcels.ParcelIDs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("enrichment pass starting", "parcels", len(ids), "site", e.cfg.Site)

	stats := &Stats{}
	c := e.newCollector(ctx, stats)

	for _, pid := range ids {
		select {
		case <-ctx.Done():
			c.Wait()
			return stats, ctx.Err()
		default:
		}
		reqCtx := colly.NewContext()
		reqCtx.Put(ctxParcelID, pid)
		if err := c.Request("GET", summaryURL(e.cfg.Site, pid), nil, reqCtx, nil); err != nil {
			logger.Warn("summary request failed", "parcel_id", pid, "error", err)
			stats.add(&stats.Failed)
		}
	}
	c.Wait()

	logger.Info("enrichment pass complete",
		"enriched", stats.Enriched,
		"abandoned", stats.Abandoned,
		"dropped", stats.Dropped,
		"failed", stats.Failed)
	return stats, nil
}

func (e *Enricher) newCollector(ctx context.Context, stats *Stats) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(e.cfg.UserAgent),
		colly.Async(true),
	)
	c.SetRequestTimeout(e.cfg.Timeout)
	_ = c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: e.cfg.Parallelism,
		Delay:       e.cfg.Delay,
	})

	c.OnResponse(func(r *colly.Response) {
		if r.Ctx.GetAny(ctxOverlay) != nil {
			e.handleDetail(ctx, r, stats)
		} else {
			e.handleSummary(ctx, r, stats)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		// No retry within a pass; the parcel stays eligible for the next one.
		logger.Warn("fetch failed", "url", r.Request.URL.String(), "parcel_id", r.Ctx.Get(ctxParcelID), "error", err)
		stats.add(&stats.Failed)
	})

	return c
}

// handleSummary parses a parcel's summary sheet. When the page links a
// featured detail page, the partial overlay is put on the request context
// and the chain continues; otherwise the overlay is final and is committed
// immediately.
func (e *Enricher) handleSummary(ctx context.Context, r *colly.Response, stats *Stats) {
	pid := r.Ctx.Get(ctxParcelID)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		logger.Warn("unparseable summary page", "parcel_id", pid, "error", err)
		stats.add(&stats.Failed)
		return
	}

	ov, detailHref := extract.Listing(doc, pid)
	if detailHref == "" {
		e.apply(ctx, ov, stats)
		return
	}

	r.Ctx.Put(ctxOverlay, ov)
	if err := r.Request.Visit(resolveHref(e.cfg.Site, detailHref)); err != nil {
		logger.Warn("detail request failed", "parcel_id", pid, "error", err)
		stats.add(&stats.Failed)
	}
}

// handleDetail overlays the featured detail page onto the carried partial
// record. An extraction fatal error abandons this parcel's enrichment with
// nothing committed.
func (e *Enricher) handleDetail(ctx context.Context, r *colly.Response, stats *Stats) {
	ov := r.Ctx.GetAny(ctxOverlay).(*models.Overlay)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		logger.Warn("unparseable detail page", "parcel_id", ov.ParcelID, "error", err)
		stats.add(&stats.Failed)
		return
	}

	if err := extract.Detail(doc, ov, e.cfg.Site); err != nil {
		logger.Warn("abandoning record", "parcel_id", ov.ParcelID, "error", err)
		stats.add(&stats.Abandoned)
		return
	}
	e.apply(ctx, ov, stats)
}

func (e *Enricher) apply(ctx context.Context, ov *models.Overlay, stats *Stats) {
	err := e.applier.Upsert(ctx, ov)
	switch {
	case err == nil:
		logger.Debug("record enriched", "parcel_id", ov.ParcelID)
		stats.add(&stats.Enriched)
	case errors.Is(err, store.ErrNotFound):
		logger.Warn("overlay dropped, parcel unknown to store", "parcel_id", ov.ParcelID)
		stats.add(&stats.Dropped)
	default:
		logger.Error("commit failed", "parcel_id", ov.ParcelID, "error", err)
		stats.add(&stats.Failed)
	}
}
