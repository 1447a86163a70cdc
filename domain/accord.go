package domain

// CREATE TABLE public.accords (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name        TEXT UNIQUE NOT NULL,
//     description TEXT
// );

type Accord struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;unique;not null"`
	Description string `gorm:"column:description;type:text"`
}

func (Accord) TableName() string {
	return "accords"
}

// PerfumeAccord links a perfume to an accord with a persisted predominance
// rank (0 = most predominant). The rank column is authoritative; nothing
// may rely on row iteration order.
type PerfumeAccord struct {
	PerfumeID uint64 `gorm:"column:perfume_id;primaryKey"`
	AccordID  uint64 `gorm:"column:accord_id;primaryKey"`
	Rank      int    `gorm:"column:rank;not null;index"`
}

func (PerfumeAccord) TableName() string {
	return "perfume_accords"
}

// RankedAccord is the in-memory view of one accord on a perfume, ordered
// by predominance.
type RankedAccord struct {
	Name string
	Rank int
}
