package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Incompatibility severities. Only error-severity edges block selection;
// warning edges are advisory.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Incompatibility is one directed edge stating OptionID cannot be combined
// with IncompatibleOptionID. Edges are logically symmetric: every creation
// path must write both directions, and the unique index on the pair makes
// re-inserting a direction a conflict rather than a duplicate.
type Incompatibility struct {
	ID                   string `gorm:"type:uuid;primaryKey"`
	OptionID             string `gorm:"type:uuid;not null;uniqueIndex:idx_incompatibility_pair"`
	IncompatibleOptionID string `gorm:"type:uuid;not null;uniqueIndex:idx_incompatibility_pair"`
	Severity             string `gorm:"not null;default:'error'"`
	Message              string `gorm:""`
}

func (i *Incompatibility) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

func (i *Incompatibility) TableName() string {
	return "incompatibilities"
}

// IsError reports whether the edge is enforced as a hard block.
func (i *Incompatibility) IsError() bool {
	return i.Severity == SeverityError
}
