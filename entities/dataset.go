package entities

import "time"

// Dataset is one imported StateCU file. Its records live in the
// per-component tables keyed by DatasetID.
type Dataset struct {
	DatasetID  uint     `gorm:"primaryKey" json:"dataset_id"`
	Token      string   `gorm:"uniqueIndex" json:"token"`
	Component  string   `gorm:"index" json:"component"`
	SourceName string   `json:"source_name"`
	Variant    string   `json:"variant"`
	Comments   []string `gorm:"serializer:json" json:"comments,omitempty"`
	Records    int      `json:"records"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
