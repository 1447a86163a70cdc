//go:build !integration

package recommendation

import (
	"reflect"
	"testing"

	"sille/domain"
)

func TestRankWeightDecay(t *testing.T) {
	want := []float64{1.0, 0.8, 0.6, 0.4, 0.2, 0.1, 0.1}
	for rank, expected := range want {
		if got := rankWeight(rank); got != expected {
			t.Errorf("rankWeight(%d) = %v, want %v", rank, got, expected)
		}
	}
	if got := rankWeight(-1); got != 1.0 {
		t.Errorf("rankWeight(-1) = %v, want 1.0", got)
	}
}

func TestBuildMatrixWeights(t *testing.T) {
	vocabulary := []string{"citrus", "vanilla", "woody"}
	profiles := []domain.PerfumeProfile{
		{
			PerfumeID: 2,
			Gender:    domain.GenderMale,
			Accords: []domain.RankedAccord{
				{Name: "Woody", Rank: 0},
				{Name: "citrus", Rank: 1},
				{Name: "unknown accord", Rank: 2},
			},
		},
		{
			PerfumeID: 1,
			Gender:    domain.GenderFemale,
			Accords: []domain.RankedAccord{
				{Name: "vanilla", Rank: 6},
			},
		},
	}

	matrix := BuildMatrix(vocabulary, profiles)

	if len(matrix.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(matrix.Items))
	}

	// items come back sorted by perfume ID
	if matrix.Items[0].PerfumeID != 1 || matrix.Items[1].PerfumeID != 2 {
		t.Fatalf("items not sorted by perfume ID: %+v", matrix.Items)
	}

	if want := []float64{0, 0.1, 0}; !reflect.DeepEqual(matrix.Items[0].Weights, want) {
		t.Errorf("perfume 1 weights = %v, want %v", matrix.Items[0].Weights, want)
	}
	if want := []float64{0.8, 0, 1.0}; !reflect.DeepEqual(matrix.Items[1].Weights, want) {
		t.Errorf("perfume 2 weights = %v, want %v", matrix.Items[1].Weights, want)
	}
}

func TestBuildMatrixNoAccordsZeroRow(t *testing.T) {
	matrix := BuildMatrix([]string{"citrus", "vanilla"}, []domain.PerfumeProfile{
		{PerfumeID: 7, Gender: domain.GenderUnisex},
	})

	if len(matrix.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(matrix.Items))
	}
	if want := []float64{0, 0}; !reflect.DeepEqual(matrix.Items[0].Weights, want) {
		t.Errorf("weights = %v, want zero row %v", matrix.Items[0].Weights, want)
	}
}

func TestBuildMatrixDefaults(t *testing.T) {
	matrix := BuildMatrix([]string{"citrus"}, []domain.PerfumeProfile{
		{
			PerfumeID:     3,
			Gender:        "",
			Popularity:    -5,
			RatingCount:   -1,
			OverallRating: 4.2,
		},
	})

	item := matrix.Items[0]
	if item.Gender != domain.GenderUnisex {
		t.Errorf("missing gender = %q, want unisex", item.Gender)
	}
	if item.Popularity != 0 || item.RatingCount != 0 {
		t.Errorf("negative signals not clamped: pop=%v count=%v", item.Popularity, item.RatingCount)
	}
	if item.OverallRating != 4.2 {
		t.Errorf("overall rating = %v, want 4.2", item.OverallRating)
	}
}
