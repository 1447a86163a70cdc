package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type AccordRepository struct {
	DB *gorm.DB
}

func NewAccordRepository(db *gorm.DB) *AccordRepository {
	return &AccordRepository{DB: db}
}

// ListLinkedNames returns the distinct names of accords attached to at
// least one perfume, ordered by name. Orphan accords are excluded.
func (r *AccordRepository) ListLinkedNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var names []string
	err := r.DB.WithContext(ctx).
		Table("accords").
		Distinct("accords.name").
		Joins("JOIN perfume_accords ON perfume_accords.accord_id = accords.id").
		Order("accords.name").
		Pluck("accords.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list linked accords: %w", err)
	}

	return names, nil
}
