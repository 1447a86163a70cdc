package postgres

import (
	"context"
	"errors"
	"fmt"

	"sille/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SurveyRepository struct {
	DB *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{DB: db}
}

// GetByUserID returns the user's latest survey, or (nil, nil) when the
// user never submitted one. "No survey" is an expected outcome, not an
// error.
func (r *SurveyRepository) GetByUserID(ctx context.Context, userID uint) (*domain.SurveyResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var survey domain.SurveyResponse
	err := r.DB.WithContext(ctx).First(&survey, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query survey_responses: %w", err)
	}

	return &survey, nil
}

// Upsert stores the user's survey, overwriting any previous submission.
func (r *SurveyRepository) Upsert(ctx context.Context, survey *domain.SurveyResponse) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"response_data", "completed_at"}),
		},
	).Create(survey).Error; err != nil {
		return fmt.Errorf("failed to upsert survey response: %w", err)
	}

	return nil
}
