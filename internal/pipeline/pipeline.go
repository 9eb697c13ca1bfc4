// Package pipeline reconciles extraction overlays with persisted records:
// lookup by parcel id, on-demand geocoding, presence-based field merge, one
// atomic commit per record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flispi/landbank/internal/geocode"
	"github.com/flispi/landbank/internal/logger"
	"github.com/flispi/landbank/internal/models"
	"github.com/flispi/landbank/internal/store"
)

// Store is the subset of the property store the merge engine needs.
type Store interface {
	FindByParcelID(ctx context.Context, parcelID string) (*models.Property, error)
	Update(ctx context.Context, p *models.Property) error
}

// Pipeline applies enrichment overlays to stored records.
type Pipeline struct {
	store    Store
	geocoder geocode.Geocoder
}

// New creates a pipeline. geocoder may be nil, in which case records are
// persisted without coordinates.
func New(s Store, g geocode.Geocoder) *Pipeline {
	return &Pipeline{store: s, geocoder: g}
}

// Upsert merges an overlay into the stored record for its parcel id.
//
// Enrichment never creates parcels; discovery is the sole creator. When no
// record exists the overlay is rejected with an error wrapping
// store.ErrNotFound and the store is left untouched. Otherwise only the
// fields present in the overlay replace stored values, geocoding is
// attempted when the stored record has no coordinates yet, and the result
// is committed in a single update.
func (p *Pipeline) Upsert(ctx context.Context, ov *models.Overlay) error {
	rec, err := p.store.FindByParcelID(ctx, ov.ParcelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("enrichment overlay for unknown parcel: %w", err)
		}
		return err
	}

	if rec.Coords == nil {
		p.resolveCoords(ctx, rec)
	}

	ov.ApplyTo(rec)
	return p.store.Update(ctx, rec)
}

// resolveCoords asks the geocoder for the record's postal address and keeps
// the first candidate. Provider failures and empty results are non-fatal:
// coords stay null and will be retried on the next enrichment visit.
func (p *Pipeline) resolveCoords(ctx context.Context, rec *models.Property) {
	if p.geocoder == nil {
		return
	}

	address := strings.Join([]string{rec.Address, rec.City, rec.Zip}, ", ")
	candidates, err := p.geocoder.Geocode(ctx, address)
	if err != nil {
		logger.Warn("geocode failed", "parcel_id", rec.ParcelID, "address", address, "error", err)
		return
	}
	if len(candidates) == 0 {
		logger.Debug("no geocode match", "parcel_id", rec.ParcelID, "address", address)
		return
	}
	rec.Coords = &candidates[0]
}
