// Package core manages the versioned PINTS core schema and its entities:
// samples, acquisition runs, and detected features, plus the generic
// algorithm-property store used by analysis modules.
package core

// Sample is a physical or pooled sample under study.
type Sample struct {
	SampleID    string  `gorm:"column:sample_id;primaryKey"`
	SampleType  *string `gorm:"column:sample_type"`
	Description *string `gorm:"column:description"`
}

// TableName maps Sample onto the core schema.
func (Sample) TableName() string { return "samples" }

// Run is one acquisition run of a sample.
type Run struct {
	RunID      string  `gorm:"column:run_id;primaryKey"`
	SampleID   string  `gorm:"column:sample_id"`
	AcqTimeUTC *string `gorm:"column:acq_time_utc"`
	Instrument *string `gorm:"column:instrument"`
	MethodID   *string `gorm:"column:method_id"`
	BatchID    *string `gorm:"column:batch_id"`
}

// TableName maps Run onto the core schema.
func (Run) TableName() string { return "runs" }

// Feature is a detected feature within a run.
type Feature struct {
	FeatureID string   `gorm:"column:feature_id;primaryKey"`
	RunID     string   `gorm:"column:run_id"`
	MZ        float64  `gorm:"column:mz"`
	RT        *float64 `gorm:"column:rt"`
	Area      *float64 `gorm:"column:area"`
}

// TableName maps Feature onto the core schema.
func (Feature) TableName() string { return "features" }

// AlgoProperty is an algorithm-specific property attached to an entity at
// some level (feature, component_intra, run). The table is created on
// first use, outside the core DDL.
type AlgoProperty struct {
	Level       string   `gorm:"column:level;primaryKey"`
	EntityID    string   `gorm:"column:entity_id;primaryKey"`
	PropKey     string   `gorm:"column:prop_key;primaryKey"`
	PropValue   *float64 `gorm:"column:prop_value"`
	ValueText   *string  `gorm:"column:value_text"`
	UnitCode    *string  `gorm:"column:unit_code"`
	OntologyURI *string  `gorm:"column:ontology_uri"`
}

// TableName maps AlgoProperty onto its on-demand table.
func (AlgoProperty) TableName() string { return "algo_properties" }
