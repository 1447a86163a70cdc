package postgres

import (
	"context"
	"fmt"

	"sille/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OccasionRepository struct {
	DB *gorm.DB
}

func NewOccasionRepository(db *gorm.DB) *OccasionRepository {
	return &OccasionRepository{DB: db}
}

// ReplaceLabels swaps a perfume's occasion set in one transaction,
// creating occasion rows that don't exist yet.
func (r *OccasionRepository) ReplaceLabels(ctx context.Context, perfumeID uint64, labels []string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint64, 0, len(labels))
		for _, label := range labels {
			occ := domain.Occasion{Name: label}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&occ).Error; err != nil {
				return fmt.Errorf("failed to ensure occasion %q: %w", label, err)
			}

			// DoNothing leaves ID zero for existing rows; read it back
			if occ.ID == 0 {
				if err := tx.First(&occ, "name = ?", label).Error; err != nil {
					return fmt.Errorf("failed to load occasion %q: %w", label, err)
				}
			}
			ids = append(ids, occ.ID)
		}

		if err := tx.Where("perfume_id = ?", perfumeID).
			Delete(&domain.PerfumeOccasion{}).Error; err != nil {
			return fmt.Errorf("failed to clear occasions for perfume %d: %w", perfumeID, err)
		}

		links := make([]domain.PerfumeOccasion, 0, len(ids))
		for _, id := range ids {
			links = append(links, domain.PerfumeOccasion{
				PerfumeID:  perfumeID,
				OccasionID: id,
			})
		}
		if len(links) == 0 {
			return nil
		}

		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("failed to link occasions for perfume %d: %w", perfumeID, err)
		}

		return nil
	})
}
