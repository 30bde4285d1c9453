package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Configurator is the tenant-owned root every catalog row hangs off.
// A merchant can own several configurators, one per embeddable product.
type Configurator struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	MerchantID string `gorm:"type:uuid;not null;index"`
	Name       string `gorm:"not null"`

	Categories []Category `gorm:"foreignKey:ConfiguratorID;constraint:OnDelete:CASCADE"`
}

func (c *Configurator) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (c *Configurator) TableName() string {
	return "configurators"
}
