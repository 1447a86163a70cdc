package postgres

import (
	"context"
	"fmt"

	"sille/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const matchInsertBatchSize = 500

type MatchRepository struct {
	DB *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{DB: db}
}

// ReplaceForUser swaps the user's persisted match rows for the given
// results in one transaction.
func (r *MatchRepository) ReplaceForUser(ctx context.Context, userID uint, results []domain.MatchResult) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&domain.PerfumeMatch{}).Error; err != nil {
			return fmt.Errorf("failed to clear matches for user %d: %w", userID, err)
		}

		if len(results) == 0 {
			return nil
		}

		matches := make([]domain.PerfumeMatch, 0, len(results))
		for _, res := range results {
			matches = append(matches, domain.PerfumeMatch{
				UserID:     userID,
				PerfumeID:  res.PerfumeID,
				MatchScore: res.Score,
			})
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "perfume_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"match_score", "updated_at"}),
		}).CreateInBatches(matches, matchInsertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert matches for user %d: %w", userID, err)
		}

		return nil
	})
}

// DeleteForUser removes every persisted match for the user; used when a
// regeneration produced zero eligible candidates.
func (r *MatchRepository) DeleteForUser(ctx context.Context, userID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Delete(&domain.PerfumeMatch{}).Error; err != nil {
		return fmt.Errorf("failed to delete matches for user %d: %w", userID, err)
	}

	return nil
}

// ListForUser returns the user's matches ordered by score descending,
// perfume ID ascending on equal scores.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]domain.PerfumeMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}

	var matches []domain.PerfumeMatch
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("match_score DESC, perfume_id ASC").
		Limit(limit).
		Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches for user %d: %w", userID, err)
	}

	return matches, nil
}
