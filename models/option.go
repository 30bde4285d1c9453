package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Option is a single selectable choice within a category.
// A zero price is valid and means "free".
type Option struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	CategoryID  string          `gorm:"type:uuid;not null;index:idx_options_category_position"`
	Label       string          `gorm:"not null"`
	Description string          `gorm:""`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	SKU         string          `gorm:"index"`
	Position    int             `gorm:"not null;default:0;index:idx_options_category_position"`
	IsDefault   bool            `gorm:"not null;default:false"`
	InStock     bool            `gorm:"not null;default:true"`
	IsActive    bool            `gorm:"not null;default:true"`

	Incompatibilities []Incompatibility `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE"`
}

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

func (o *Option) TableName() string {
	return "options"
}
