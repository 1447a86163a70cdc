package domain

import "time"

// PerfumeMatch is one persisted (user, perfume, score) row. MatchScore is
// kept at three decimal places to match the schema's numeric(4,3).
type PerfumeMatch struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"column:user_id;not null;uniqueIndex:idx_user_perfume"`
	PerfumeID  uint64    `gorm:"column:perfume_id;not null;uniqueIndex:idx_user_perfume"`
	MatchScore float64   `gorm:"column:match_score;type:numeric(4,3)"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PerfumeMatch) TableName() string {
	return "user_perfume_matches"
}

// MatchResult is the in-memory (perfume, score) pair produced by the
// scorer, score in [0,1].
type MatchResult struct {
	PerfumeID uint64  `json:"perfume_id"`
	Score     float64 `json:"score"`
}
