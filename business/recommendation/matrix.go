package recommendation

import (
	"sort"

	"sille/domain"
)

// Matrix is the weighted perfume-accord matrix for one catalog snapshot.
// Items are sorted by perfume ID; every weight row has the vocabulary's
// length. Immutable once built.
type Matrix struct {
	Vocabulary []string     `json:"vocabulary"`
	Items      []MatrixItem `json:"items"`
}

type MatrixItem struct {
	PerfumeID uint64        `json:"perfume_id"`
	Gender    domain.Gender `json:"gender"`

	Popularity    float64 `json:"popularity"`
	RatingCount   float64 `json:"rating_count"`
	OverallRating float64 `json:"overall_rating"`

	Weights []float64 `json:"weights"`
}

// rankWeights holds the exact decay per predominance rank; computing the
// steps arithmetically drifts below the published values in float64.
var rankWeights = [...]float64{1.0, 0.8, 0.6, 0.4, 0.2}

// rankWeight decays an accord's contribution by its predominance rank:
// 1.0, 0.8, 0.6, 0.4, 0.2, then 0.1 for rank >= 5.
func rankWeight(rank int) float64 {
	if rank < 0 {
		rank = 0
	}
	if rank >= len(rankWeights) {
		return 0.1
	}
	return rankWeights[rank]
}

// BuildMatrix derives the weight matrix from catalog profiles. Profiles
// with no accords get a zero row; accords missing from the vocabulary are
// skipped; gender falls back to unisex; negative popularity signals clamp
// to zero. A pure function of its inputs so it can be rebuilt any time.
func BuildMatrix(vocabulary []string, profiles []domain.PerfumeProfile) *Matrix {
	index := make(map[string]int, len(vocabulary))
	for i, name := range vocabulary {
		index[name] = i
	}

	items := make([]MatrixItem, 0, len(profiles))
	for _, p := range profiles {
		weights := make([]float64, len(vocabulary))
		for _, ra := range p.Accords {
			pos, ok := index[normalizeAccordName(ra.Name)]
			if !ok {
				continue
			}
			weights[pos] = rankWeight(ra.Rank)
		}

		gender := p.Gender
		if gender == "" {
			gender = domain.GenderUnisex
		}

		items = append(items, MatrixItem{
			PerfumeID:     p.PerfumeID,
			Gender:        gender,
			Popularity:    clampNonNegative(p.Popularity),
			RatingCount:   clampNonNegative(p.RatingCount),
			OverallRating: clampNonNegative(p.OverallRating),
			Weights:       weights,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].PerfumeID < items[j].PerfumeID
	})

	return &Matrix{
		Vocabulary: vocabulary,
		Items:      items,
	}
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
