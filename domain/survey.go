package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SurveyGenderKey is the reserved key in a survey payload holding the
// user's gender preference; every other key is an accord name.
const SurveyGenderKey = "gender"

// SurveyUnknownRating is the sentinel a user submits for "I don't know";
// it maps to a neutral preference.
const SurveyUnknownRating = -1

// SurveyResponse is a user's latest survey, one row per user, overwritten
// on resubmission. ResponseData maps accord name -> rating (0-5 or -1)
// plus the reserved "gender" key.
type SurveyResponse struct {
	ID           uint              `gorm:"primaryKey"`
	UserID       uint              `gorm:"column:user_id;uniqueIndex;not null"`
	ResponseData datatypes.JSONMap `gorm:"column:response_data;type:jsonb"`
	CompletedAt  time.Time         `gorm:"column:completed_at;autoUpdateTime"`
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}
