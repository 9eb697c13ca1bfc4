// Package store is the persistence boundary for property records, backed by
// GORM over sqlite (default) or postgres.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/flispi/landbank/internal/models"
)

// ErrNotFound is returned when no record exists for the requested parcel id.
var ErrNotFound = errors.New("property not found")

// parcelSentinels are placeholder parcel ids the source site emits for
// records with no usable identifier. They are never crawled.
var parcelSentinels = map[string]bool{"": true, "0": true, "None": true}

// Store wraps the properties table.
type Store struct {
	db *gorm.DB
}

// Open connects to the database named by driver ("sqlite" or "postgres")
// and dsn, and migrates the properties table. A connection failure here is
// fatal to the run; it is the only error this pipeline treats that way.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&models.Property{}); err != nil {
		return nil, fmt.Errorf("migrate properties table: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing gorm handle. Used by tests.
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.Property{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create inserts a new record, assigning a fresh row id when none is set.
// The row id is never derived from the parcel id.
func (s *Store) Create(ctx context.Context, p *models.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create property %s: %w", p.ParcelID, err)
	}
	return nil
}

// FindByParcelID looks up the record for a parcel id, returning ErrNotFound
// when no row exists.
func (s *Store) FindByParcelID(ctx context.Context, parcelID string) (*models.Property, error) {
	var p models.Property
	err := s.db.WithContext(ctx).Where("parcel_id = ?", parcelID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("parcel %s: %w", parcelID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find parcel %s: %w", parcelID, err)
	}
	return &p, nil
}

// Update persists the full record in a single statement, so an enrichment
// pass either applies all of its fields or none of them.
func (s *Store) Update(ctx context.Context, p *models.Property) error {
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update parcel %s: %w", p.ParcelID, err)
	}
	return nil
}

// ParcelIDs returns every parcel id in the store, excluding sentinel values.
func (s *Store) ParcelIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Property{}).Pluck("parcel_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list parcel ids: %w", err)
	}
	out := ids[:0]
	for _, id := range ids {
		if !parcelSentinels[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// List returns all records ordered by parcel id, for export.
func (s *Store) List(ctx context.Context) ([]models.Property, error) {
	var props []models.Property
	if err := s.db.WithContext(ctx).Order("parcel_id").Find(&props).Error; err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return props, nil
}
