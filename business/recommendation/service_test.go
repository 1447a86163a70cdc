//go:build !integration

package recommendation

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"sille/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAccordRepo struct {
	names []string
	err   error
}

func (f *fakeAccordRepo) ListLinkedNames(ctx context.Context) ([]string, error) {
	return f.names, f.err
}

type fakeCatalogRepo struct {
	profiles []domain.PerfumeProfile
	err      error
}

func (f *fakeCatalogRepo) ListProfiles(ctx context.Context) ([]domain.PerfumeProfile, error) {
	return f.profiles, f.err
}

type fakeSurveyRepo struct {
	survey *domain.SurveyResponse
	err    error
}

func (f *fakeSurveyRepo) GetByUserID(ctx context.Context, userID uint) (*domain.SurveyResponse, error) {
	return f.survey, f.err
}

// memStore is an in-memory Store standing in for Redis.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func newTestService(accords *fakeAccordRepo, catalog *fakeCatalogRepo, surveys *fakeSurveyRepo) *Service {
	return NewService(accords, catalog, surveys, NewTieredCache(newMemStore()), DefaultConfig())
}

func surveyWith(data map[string]any) *domain.SurveyResponse {
	return &domain.SurveyResponse{UserID: 1, ResponseData: data, CompletedAt: time.Now()}
}

// ---- tests ----

func TestGenerateRanksBySimilarity(t *testing.T) {
	catalog := &fakeCatalogRepo{profiles: []domain.PerfumeProfile{
		{
			PerfumeID: 1,
			Gender:    domain.GenderUnisex,
			Accords:   []domain.RankedAccord{{Name: "citrus", Rank: 0}},
		},
		{
			PerfumeID: 2,
			Gender:    domain.GenderUnisex,
			Accords:   []domain.RankedAccord{{Name: "vanilla", Rank: 0}},
		},
	}}
	svc := newTestService(
		&fakeAccordRepo{names: []string{"citrus", "vanilla"}},
		catalog,
		&fakeSurveyRepo{survey: surveyWith(map[string]any{
			"gender":  "male",
			"citrus":  float64(5),
			"vanilla": float64(0),
		})},
	)

	results, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// the citrus perfume pins the max, the vanilla one the min
	assert.Equal(t, uint64(1), results[0].PerfumeID)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, uint64(2), results[1].PerfumeID)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestGenerateNotPossibleWithoutSurvey(t *testing.T) {
	svc := newTestService(
		&fakeAccordRepo{names: []string{"citrus"}},
		&fakeCatalogRepo{profiles: []domain.PerfumeProfile{
			{PerfumeID: 1, Gender: domain.GenderUnisex},
		}},
		&fakeSurveyRepo{survey: nil},
	)

	results, err := svc.Generate(context.Background(), 1)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrNotPossible)
}

func TestGenerateNotPossibleWithEmptyVocabulary(t *testing.T) {
	svc := newTestService(
		&fakeAccordRepo{names: nil},
		&fakeCatalogRepo{},
		&fakeSurveyRepo{survey: surveyWith(map[string]any{"gender": "male"})},
	)

	_, err := svc.Generate(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotPossible)
}

func TestGenerateNotPossibleWithEmptyCatalog(t *testing.T) {
	svc := newTestService(
		&fakeAccordRepo{names: []string{"citrus"}},
		&fakeCatalogRepo{profiles: nil},
		&fakeSurveyRepo{survey: surveyWith(map[string]any{"gender": "male"})},
	)

	_, err := svc.Generate(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotPossible)
}

func TestGenerateEmptyAfterGenderFilter(t *testing.T) {
	// a unisex preference excludes gendered perfumes entirely
	svc := newTestService(
		&fakeAccordRepo{names: []string{"citrus"}},
		&fakeCatalogRepo{profiles: []domain.PerfumeProfile{
			{PerfumeID: 1, Gender: domain.GenderMale, Accords: []domain.RankedAccord{{Name: "citrus", Rank: 0}}},
			{PerfumeID: 2, Gender: domain.GenderFemale, Accords: []domain.RankedAccord{{Name: "citrus", Rank: 0}}},
		}},
		&fakeSurveyRepo{survey: surveyWith(map[string]any{
			"gender": "unisex",
			"citrus": float64(5),
		})},
	)

	results, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestGenerateAllTiedScoresHalf(t *testing.T) {
	svc := newTestService(
		&fakeAccordRepo{names: []string{"citrus"}},
		&fakeCatalogRepo{profiles: []domain.PerfumeProfile{
			{PerfumeID: 3, Gender: domain.GenderUnisex, Accords: []domain.RankedAccord{{Name: "citrus", Rank: 0}}},
			{PerfumeID: 1, Gender: domain.GenderUnisex, Accords: []domain.RankedAccord{{Name: "citrus", Rank: 0}}},
			{PerfumeID: 2, Gender: domain.GenderUnisex, Accords: []domain.RankedAccord{{Name: "citrus", Rank: 0}}},
		}},
		&fakeSurveyRepo{survey: surveyWith(map[string]any{
			"gender": "female",
			"citrus": float64(4),
		})},
	)

	results, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// identical raw scores collapse to 0.5 and tie-break on perfume ID
	for i, r := range results {
		assert.Equal(t, 0.5, r.Score)
		assert.Equal(t, uint64(i+1), r.PerfumeID)
	}
}

func TestGenerateUsesResultCache(t *testing.T) {
	accords := &fakeAccordRepo{names: []string{"citrus"}}
	svc := newTestService(
		accords,
		&fakeCatalogRepo{profiles: []domain.PerfumeProfile{
			{PerfumeID: 1, Gender: domain.GenderUnisex, Accords: []domain.RankedAccord{{Name: "citrus", Rank: 0}}},
		}},
		&fakeSurveyRepo{survey: surveyWith(map[string]any{
			"gender": "male",
			"citrus": float64(5),
		})},
	)

	first, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)

	// breaking the repos proves the second call never leaves the cache
	accords.err = errors.New("db down")
	accords.names = nil

	second, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateRebuildsMatrixAfterVocabularyRename(t *testing.T) {
	profiles := []domain.PerfumeProfile{
		{PerfumeID: 1, Gender: domain.GenderUnisex, Accords: []domain.RankedAccord{{Name: "amber", Rank: 0}}},
		{PerfumeID: 2, Gender: domain.GenderUnisex, Accords: []domain.RankedAccord{{Name: "citrus", Rank: 0}}},
	}
	svc := newTestService(
		&fakeAccordRepo{names: []string{"amber", "citrus"}},
		&fakeCatalogRepo{profiles: profiles},
		&fakeSurveyRepo{survey: surveyWith(map[string]any{
			"gender": "male",
			"citrus": float64(5),
		})},
	)

	// a warm matrix from an older snapshot with the same length: citrus
	// sits at index 0 there but index 1 now
	stale := BuildMatrix([]string{"citrus", "vanilla"}, profiles)
	svc.cache.SetJSON(context.Background(), keyMatrix, stale, time.Hour)

	results, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// the stale matrix would invert this ranking
	assert.Equal(t, uint64(2), results[0].PerfumeID)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestGenerateRebuildsPreferenceAfterVocabularyRename(t *testing.T) {
	profiles := []domain.PerfumeProfile{
		{PerfumeID: 1, Gender: domain.GenderUnisex, Accords: []domain.RankedAccord{{Name: "amber", Rank: 0}}},
		{PerfumeID: 2, Gender: domain.GenderUnisex, Accords: []domain.RankedAccord{{Name: "citrus", Rank: 0}}},
	}
	svc := newTestService(
		&fakeAccordRepo{names: []string{"amber", "citrus"}},
		&fakeCatalogRepo{profiles: profiles},
		&fakeSurveyRepo{survey: surveyWith(map[string]any{
			"gender": "male",
			"citrus": float64(5),
		})},
	)

	// a cached vector aligned to an older same-length snapshot puts the
	// citrus rating at the wrong index
	svc.cache.SetJSON(context.Background(), keyPreference(1), struct {
		Vector     []float64     `json:"vector"`
		Gender     domain.Gender `json:"gender"`
		Vocabulary []string      `json:"vocabulary"`
	}{
		Vector:     []float64{2.5, 0},
		Gender:     domain.GenderMale,
		Vocabulary: []string{"citrus", "vanilla"},
	}, time.Hour)

	results, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, uint64(2), results[0].PerfumeID)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestInvalidateUserForcesRecompute(t *testing.T) {
	surveys := &fakeSurveyRepo{survey: surveyWith(map[string]any{
		"gender": "male",
		"citrus": float64(5),
	})}
	svc := newTestService(
		&fakeAccordRepo{names: []string{"citrus"}},
		&fakeCatalogRepo{profiles: []domain.PerfumeProfile{
			{PerfumeID: 1, Gender: domain.GenderMale, Accords: []domain.RankedAccord{{Name: "citrus", Rank: 0}}},
		}},
		surveys,
	)

	_, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)

	// resubmission flips the preference to unisex-only
	surveys.survey = surveyWith(map[string]any{
		"gender": "unisex",
		"citrus": float64(5),
	})
	svc.InvalidateUser(context.Background(), 1)

	results, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, results, "male perfume must not survive a unisex preference")
}

func TestGenerateCancelledContext(t *testing.T) {
	svc := newTestService(&fakeAccordRepo{}, &fakeCatalogRepo{}, &fakeSurveyRepo{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreCandidatesDimensionMismatch(t *testing.T) {
	candidates := []MatrixItem{
		{PerfumeID: 1, Weights: []float64{1, 0}},
	}

	_, err := scoreCandidates(candidates, []float64{1, 0, 0}, 0.7)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestScoreCandidatesRounding(t *testing.T) {
	candidates := []MatrixItem{
		{PerfumeID: 1, Weights: []float64{1}},
		{PerfumeID: 2, Weights: []float64{0.333}},
		{PerfumeID: 3, Weights: []float64{0}},
	}

	results, err := scoreCandidates(candidates, []float64{1}, 0)
	require.NoError(t, err)

	for _, r := range results {
		rounded := math.Round(r.Score*1000) / 1000
		assert.Equal(t, rounded, r.Score, "score %v not limited to three decimals", r.Score)
	}
}

func TestFilterByGender(t *testing.T) {
	items := []MatrixItem{
		{PerfumeID: 1, Gender: domain.GenderMale},
		{PerfumeID: 2, Gender: domain.GenderFemale},
		{PerfumeID: 3, Gender: domain.GenderUnisex},
	}

	cases := []struct {
		gender domain.Gender
		want   []uint64
	}{
		{domain.GenderMale, []uint64{1, 3}},
		{domain.GenderFemale, []uint64{2, 3}},
		{domain.GenderUnisex, []uint64{3}},
		{domain.GenderUnknown, []uint64{1, 2, 3}},
	}

	for _, tc := range cases {
		got := filterByGender(items, tc.gender)
		ids := make([]uint64, 0, len(got))
		for _, item := range got {
			ids = append(ids, item.PerfumeID)
		}
		assert.Equal(t, tc.want, ids, "gender %q", tc.gender)
	}
}
