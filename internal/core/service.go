package core

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pints-nts/pints/internal/db"
)

// Service provides core-entity operations over one store. Every call is
// its own open/use/close cycle on the store.
type Service struct {
	store *db.Store
}

// NewService returns a Service over store.
func NewService(store *db.Store) *Service {
	return &Service{store: store}
}

// AddSample upserts a sample. A missing SampleID is generated.
func (s *Service) AddSample(sample *Sample) error {
	if sample.SampleID == "" {
		sample.SampleID = uuid.New().String()
	}
	if err := s.upsert(sample); err != nil {
		return fmt.Errorf("upsert sample %s: %w", sample.SampleID, err)
	}
	return nil
}

// AddRun upserts an acquisition run. A missing RunID is generated. The
// referenced sample must exist.
func (s *Service) AddRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if err := s.upsert(run); err != nil {
		return fmt.Errorf("upsert run %s: %w", run.RunID, err)
	}
	return nil
}

// AddFeature upserts a detected feature. A missing FeatureID is generated.
// The referenced run must exist.
func (s *Service) AddFeature(feature *Feature) error {
	if feature.FeatureID == "" {
		feature.FeatureID = uuid.New().String()
	}
	if err := s.upsert(feature); err != nil {
		return fmt.Errorf("upsert feature %s: %w", feature.FeatureID, err)
	}
	return nil
}

func (s *Service) upsert(model any) error {
	return s.store.With(func(gdb *gorm.DB) error {
		return gdb.Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
	})
}

// GetFeature returns a feature by ID, or nil when absent.
func (s *Service) GetFeature(featureID string) (*Feature, error) {
	var feature Feature
	err := s.store.With(func(gdb *gorm.DB) error {
		return gdb.First(&feature, "feature_id = ?", featureID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get feature %s: %w", featureID, err)
	}
	return &feature, nil
}

// SetProperty upserts an algorithm-specific property, creating the
// algo_properties table on first use.
func (s *Service) SetProperty(prop *AlgoProperty) error {
	err := s.store.With(func(gdb *gorm.DB) error {
		if err := gdb.AutoMigrate(&AlgoProperty{}); err != nil {
			return err
		}
		return gdb.Clauses(clause.OnConflict{UpdateAll: true}).Create(prop).Error
	})
	if err != nil {
		return fmt.Errorf("set property %s on %s:%s: %w", prop.PropKey, prop.Level, prop.EntityID, err)
	}
	return nil
}

// Properties returns all algorithm-specific properties for an entity,
// ordered by key. An absent algo_properties table yields an empty slice.
func (s *Service) Properties(level, entityID string) ([]AlgoProperty, error) {
	var props []AlgoProperty
	err := s.store.With(func(gdb *gorm.DB) error {
		if !gdb.Migrator().HasTable(&AlgoProperty{}) {
			return nil
		}
		return gdb.Where("level = ? AND entity_id = ?", level, entityID).
			Order("prop_key").
			Find(&props).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get properties for %s:%s: %w", level, entityID, err)
	}
	return props, nil
}

// ExportTable writes SELECT * of a table or view to a CSV file.
func (s *Service) ExportTable(table, outPath string, header bool) error {
	if err := s.store.ExportCSV("SELECT * FROM "+table, outPath, header); err != nil {
		return fmt.Errorf("export table %s: %w", table, err)
	}
	return nil
}
