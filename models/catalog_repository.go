package models

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrConfiguratorNotFound is returned when a configurator is not found.
var ErrConfiguratorNotFound = errors.New("configurator not found")

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		db: db,
	}
}

func (r *CatalogRepository) GetConfigurator(id string) (*Configurator, error) {
	var cfg Configurator
	if err := r.db.Where("id = ?", id).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfiguratorNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// GetCatalog loads the full catalog for one configurator: categories in
// display order, each with its options (in position order) and their
// incompatibility edges. The result is treated as an immutable snapshot for
// the duration of a configuration session.
func (r *CatalogRepository) GetCatalog(configuratorID string) ([]Category, error) {
	if _, err := r.GetConfigurator(configuratorID); err != nil {
		return nil, err
	}

	var categories []Category
	if err := r.db.
		Where("configurator_id = ?", configuratorID).
		Order("order_index ASC, name ASC").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Options.Incompatibilities").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ImportTx runs fn inside a single transaction. The bulk import's three
// phases (categories, options, incompatibility rows) must be all-or-nothing;
// options without their edges would be a structurally invalid catalog.
func (r *CatalogRepository) ImportTx(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// FindOrCreateCategory looks up a category by exact name within the
// configurator and creates it only on a miss. Find is case-sensitive.
func (r *CatalogRepository) FindOrCreateCategory(tx *gorm.DB, configuratorID string, category Category) (*Category, error) {
	var existing Category
	err := tx.
		Where("configurator_id = ? AND name = ?", configuratorID, category.Name).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category.ConfiguratorID = configuratorID
	if err := tx.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CatalogRepository) CreateOption(tx *gorm.DB, option *Option) error {
	return tx.Create(option).Error
}

// CreateIncompatibilities bulk-inserts edge rows and returns how many were
// actually created. A unique violation on the (option, incompatible option)
// pair means the edge already exists; those inserts are skipped, not fatal.
func (r *CatalogRepository) CreateIncompatibilities(tx *gorm.DB, rows []Incompatibility) (int, error) {
	created := 0
	for i := range rows {
		if err := tx.Create(&rows[i]).Error; err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

// CreateIncompatibilityPair is the admin path for declaring a rule from
// either side. It always writes both directed rows so the symmetry invariant
// holds regardless of which option the rule was declared on.
func (r *CatalogRepository) CreateIncompatibilityPair(optionID, incompatibleOptionID, severity, message string) error {
	rows := []Incompatibility{
		{OptionID: optionID, IncompatibleOptionID: incompatibleOptionID, Severity: severity, Message: message},
		{OptionID: incompatibleOptionID, IncompatibleOptionID: optionID, Severity: severity, Message: message},
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		_, err := r.CreateIncompatibilities(tx, rows)
		return err
	})
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
