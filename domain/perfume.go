package domain

import (
	"time"
)

// CREATE TABLE public.perfumes (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     external_id     TEXT UNIQUE,
//     name            TEXT NOT NULL,
//     brand           TEXT,
//     gender          TEXT,
//     popularity      NUMERIC DEFAULT 0,
//     rating_count    NUMERIC DEFAULT 0,
//     overall_rating  NUMERIC DEFAULT 0,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Perfume struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	ExternalID string `gorm:"column:external_id;uniqueIndex"`
	Name       string `gorm:"column:name;not null"`
	Brand      string `gorm:"column:brand"`
	Gender     string `gorm:"column:gender"`

	// Independent popularity signals from the source catalog, all >= 0.
	Popularity    float64 `gorm:"column:popularity;default:0"`
	RatingCount   float64 `gorm:"column:rating_count;default:0"`
	OverallRating float64 `gorm:"column:overall_rating;default:0"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Perfume) TableName() string {
	return "perfumes"
}

// PerfumeProfile is one catalog row as consumed by the recommendation
// pipeline: ranked accords plus metadata, detached from storage.
type PerfumeProfile struct {
	PerfumeID uint64
	Gender    Gender
	Accords   []RankedAccord

	Popularity    float64
	RatingCount   float64
	OverallRating float64
}
