package postgres

import (
	"context"
	"errors"
	"fmt"

	"sille/domain"

	"gorm.io/gorm"
)

type PerfumeRepository struct {
	DB *gorm.DB
}

func NewPerfumeRepository(db *gorm.DB) *PerfumeRepository {
	return &PerfumeRepository{DB: db}
}

// perfumeAccordRow is the flattened join used to assemble ranked accord
// lists without relying on any incidental iteration order.
type perfumeAccordRow struct {
	PerfumeID uint64 `gorm:"column:perfume_id"`
	Name      string `gorm:"column:name"`
	Rank      int    `gorm:"column:rank"`
}

// ListProfiles loads every perfume with its accords in persisted rank
// order, plus gender and popularity signals. Perfumes without accords are
// included with an empty accord list.
func (r *PerfumeRepository) ListProfiles(ctx context.Context) ([]domain.PerfumeProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var perfumes []domain.Perfume
	if err := r.DB.WithContext(ctx).Order("id").Find(&perfumes).Error; err != nil {
		return nil, fmt.Errorf("failed to list perfumes: %w", err)
	}

	var rows []perfumeAccordRow
	err := r.DB.WithContext(ctx).
		Table("perfume_accords").
		Select("perfume_accords.perfume_id, accords.name, perfume_accords.rank").
		Joins("JOIN accords ON accords.id = perfume_accords.accord_id").
		Order("perfume_accords.perfume_id, perfume_accords.rank").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list perfume accords: %w", err)
	}

	accordsByPerfume := make(map[uint64][]domain.RankedAccord, len(perfumes))
	for _, row := range rows {
		accordsByPerfume[row.PerfumeID] = append(accordsByPerfume[row.PerfumeID], domain.RankedAccord{
			Name: row.Name,
			Rank: row.Rank,
		})
	}

	profiles := make([]domain.PerfumeProfile, 0, len(perfumes))
	for _, p := range perfumes {
		// unset catalog gender means unisex, not unknown
		gender := domain.GenderUnisex
		if p.Gender != "" {
			gender = domain.ParseGender(p.Gender)
		}

		profiles = append(profiles, domain.PerfumeProfile{
			PerfumeID:     p.ID,
			Gender:        gender,
			Accords:       accordsByPerfume[p.ID],
			Popularity:    p.Popularity,
			RatingCount:   p.RatingCount,
			OverallRating: p.OverallRating,
		})
	}

	return profiles, nil
}

// GetProfile loads a single perfume with its accords in persisted rank
// order. Returns (nil, nil) when the perfume does not exist.
func (r *PerfumeRepository) GetProfile(ctx context.Context, perfumeID uint64) (*domain.PerfumeProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var perfume domain.Perfume
	err := r.DB.WithContext(ctx).First(&perfume, perfumeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get perfume %d: %w", perfumeID, err)
	}

	var rows []perfumeAccordRow
	err = r.DB.WithContext(ctx).
		Table("perfume_accords").
		Select("perfume_accords.perfume_id, accords.name, perfume_accords.rank").
		Joins("JOIN accords ON accords.id = perfume_accords.accord_id").
		Where("perfume_accords.perfume_id = ?", perfumeID).
		Order("perfume_accords.rank").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accords for perfume %d: %w", perfumeID, err)
	}

	accords := make([]domain.RankedAccord, 0, len(rows))
	for _, row := range rows {
		accords = append(accords, domain.RankedAccord{Name: row.Name, Rank: row.Rank})
	}

	gender := domain.GenderUnisex
	if perfume.Gender != "" {
		gender = domain.ParseGender(perfume.Gender)
	}

	return &domain.PerfumeProfile{
		PerfumeID:     perfume.ID,
		Gender:        gender,
		Accords:       accords,
		Popularity:    perfume.Popularity,
		RatingCount:   perfume.RatingCount,
		OverallRating: perfume.OverallRating,
	}, nil
}
