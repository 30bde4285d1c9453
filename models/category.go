package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CategoryKind is a descriptive tag only; it never affects resolver logic.
type CategoryKind string

const (
	KindGeneric   CategoryKind = "generic"
	KindColor     CategoryKind = "color"
	KindDimension CategoryKind = "dimension"
	KindMaterial  CategoryKind = "material"
	KindFeature   CategoryKind = "feature"
	KindAccessory CategoryKind = "accessory"
	KindPower     CategoryKind = "power"
	KindText      CategoryKind = "text"
	KindFinish    CategoryKind = "finish"
	KindCustom    CategoryKind = "custom"
)

// AttributeDef is one entry of a category's attributes template.
// Display-only metadata; compatibility logic never reads it.
type AttributeDef struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Unit  string `json:"unit,omitempty"`
}

// Category represents one configuration decision presented to the end user.
// At most one category per configurator may be primary; a primary selection
// is mandatory and cannot be cleared once set, only replaced.
type Category struct {
	ID                 string         `gorm:"type:uuid;primaryKey"`
	ConfiguratorID     string         `gorm:"type:uuid;not null;index"`
	Name               string         `gorm:"not null"`
	Kind               CategoryKind   `gorm:"not null;default:'generic'"`
	IsPrimary          bool           `gorm:"not null;default:false"`
	IsRequired         bool           `gorm:"not null;default:false"`
	OrderIndex         int            `gorm:"not null;default:0"`
	AttributesTemplate datatypes.JSON `gorm:"type:jsonb"`

	Options []Option `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (c *Category) TableName() string {
	return "categories"
}
