package domain

// Occasion is a categorical usage tag assigned to a perfume by the
// classifier (e.g. "Office", "Party").
type Occasion struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"column:name;unique;not null"`
}

func (Occasion) TableName() string {
	return "occasions"
}

type PerfumeOccasion struct {
	PerfumeID  uint64 `gorm:"column:perfume_id;primaryKey"`
	OccasionID uint64 `gorm:"column:occasion_id;primaryKey"`
}

func (PerfumeOccasion) TableName() string {
	return "perfume_occasions"
}
