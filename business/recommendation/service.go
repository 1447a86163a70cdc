package recommendation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"sille/domain"
	"sille/pkg/logger"
)

// ErrNotPossible signals that recommendations cannot be generated at all:
// empty vocabulary or catalog, or the user has no usable survey. Distinct
// from an empty result list, which means no candidate survived filtering.
var ErrNotPossible = errors.New("recommendations not possible")

// ErrDimensionMismatch means a preference vector and the accord matrix
// were built from different vocabulary snapshots. This is an internal
// consistency fault and aborts the whole computation.
var ErrDimensionMismatch = errors.New("preference vector and accord matrix dimensions differ")

// ---- Repository interfaces ----

type AccordRepository interface {
	// ListLinkedNames returns the names of accords attached to at least
	// one perfume. Orphan accord definitions are excluded.
	ListLinkedNames(ctx context.Context) ([]string, error)
}

type CatalogRepository interface {
	// ListProfiles returns every perfume with its accords in persisted
	// rank order plus gender and popularity signals.
	ListProfiles(ctx context.Context) ([]domain.PerfumeProfile, error)
}

type SurveyRepository interface {
	// GetByUserID returns the user's latest survey, or (nil, nil) when
	// the user has never submitted one.
	GetByUserID(ctx context.Context, userID uint) (*domain.SurveyResponse, error)
}

// ---- Service ----

type Service struct {
	accordRepo  AccordRepository
	catalogRepo CatalogRepository
	surveyRepo  SurveyRepository
	cache       *TieredCache
	cfg         Config
}

func NewService(
	accordRepo AccordRepository,
	catalogRepo CatalogRepository,
	surveyRepo SurveyRepository,
	cache *TieredCache,
	cfg Config,
) *Service {
	return &Service{
		accordRepo:  accordRepo,
		catalogRepo: catalogRepo,
		surveyRepo:  surveyRepo,
		cache:       cache,
		cfg:         cfg,
	}
}

// Generate produces the ranked match list for one user.
//
// Outcomes:
//   - (results, nil): ranked (perfume, score) pairs, scores in [0,1]
//   - ([], nil): valid but empty, no candidate survived the gender filter
//   - (nil, ErrNotPossible): no vocabulary, no catalog, or no survey
//   - (nil, err): internal fault, safe to retry
func (s *Service) Generate(ctx context.Context, userID uint) ([]domain.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	resultKey := keyResults(userID, s.cfg.Alpha)
	if s.cache != nil {
		var cached []domain.MatchResult
		if s.cache.GetJSON(ctx, resultKey, &cached) {
			return cached, nil
		}
	}

	vocabulary := s.vocabulary(ctx)
	if len(vocabulary) == 0 {
		logger.Warn("no accord vocabulary, cannot recommend", "user_id", userID)
		generatedTotal.WithLabelValues("not_possible").Inc()
		return nil, ErrNotPossible
	}

	matrix, err := s.matrix(ctx, vocabulary)
	if err != nil {
		return nil, err
	}
	if matrix == nil || len(matrix.Items) == 0 {
		logger.Warn("empty perfume matrix, cannot recommend", "user_id", userID)
		generatedTotal.WithLabelValues("not_possible").Inc()
		return nil, ErrNotPossible
	}

	preference, gender, err := s.preference(ctx, userID, vocabulary)
	if err != nil {
		return nil, err
	}
	if preference == nil {
		logger.Info("no usable survey for user", "user_id", userID)
		generatedTotal.WithLabelValues("not_possible").Inc()
		return nil, ErrNotPossible
	}

	candidates := filterByGender(matrix.Items, gender)
	if len(candidates) == 0 {
		logger.Info("no candidates after gender filter",
			"user_id", userID, "gender", gender)
		generatedTotal.WithLabelValues("empty").Inc()
		return []domain.MatchResult{}, nil
	}

	results, err := scoreCandidates(candidates, preference, s.cfg.Alpha)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, resultKey, results, s.cfg.ResultTTL)
	}

	generatedTotal.WithLabelValues("ok").Inc()
	logger.Debug("recommendations generated",
		"user_id", userID, "candidates", len(candidates), "results", len(results))

	return results, nil
}

// InvalidateUser drops the user's cached preference vector and result
// list, typically right after a survey resubmission.
func (s *Service) InvalidateUser(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, keyPreference(userID))
	s.cache.Delete(ctx, keyResults(userID, s.cfg.Alpha))
}

// ---- cached pipeline stages ----

// vocabulary returns the current accord vocabulary, empty when nothing is
// linked or the lookup faults. Downstream treats empty uniformly as
// "no recommendations possible".
func (s *Service) vocabulary(ctx context.Context) []string {
	var vocabulary []string
	if s.cache != nil && s.cache.GetJSON(ctx, keyVocabulary, &vocabulary) {
		return vocabulary
	}

	names, err := s.accordRepo.ListLinkedNames(ctx)
	if err != nil {
		logger.Error("failed to list linked accords", "error", err)
		return nil
	}

	vocabulary = NormalizeVocabulary(names)
	if len(vocabulary) == 0 {
		logger.Warn("no accords attached to any perfume")
		return nil
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, keyVocabulary, vocabulary, s.cfg.VocabularyTTL)
	}
	return vocabulary
}

func (s *Service) matrix(ctx context.Context, vocabulary []string) (*Matrix, error) {
	if s.cache != nil {
		var cached Matrix
		if s.cache.GetJSON(ctx, keyMatrix, &cached) {
			// a matrix built against an older vocabulary snapshot is
			// unusable; a length check alone misses renames, so compare
			// the snapshot itself
			if slices.Equal(cached.Vocabulary, vocabulary) {
				return &cached, nil
			}
			s.cache.Delete(ctx, keyMatrix)
		}
	}

	profiles, err := s.catalogRepo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load perfume profiles: %w", err)
	}

	matrix := BuildMatrix(vocabulary, profiles)
	if s.cache != nil && len(matrix.Items) > 0 {
		s.cache.SetJSON(ctx, keyMatrix, matrix, s.cfg.MatrixTTL)
	}
	return matrix, nil
}

// preference returns (nil, _, nil) when the user has no usable survey;
// that is an expected outcome, not an error.
func (s *Service) preference(ctx context.Context, userID uint, vocabulary []string) ([]float64, domain.Gender, error) {
	type cachedPreference struct {
		Vector     []float64     `json:"vector"`
		Gender     domain.Gender `json:"gender"`
		Vocabulary []string      `json:"vocabulary"`
	}

	prefKey := keyPreference(userID)
	if s.cache != nil {
		var cached cachedPreference
		if s.cache.GetJSON(ctx, prefKey, &cached) {
			// vectors must be rebuilt whenever the vocabulary changes,
			// including same-length renames
			if slices.Equal(cached.Vocabulary, vocabulary) {
				return cached.Vector, cached.Gender, nil
			}
			s.cache.Delete(ctx, prefKey)
		}
	}

	survey, err := s.surveyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, domain.GenderUnknown, fmt.Errorf("failed to load survey for user %d: %w", userID, err)
	}
	if survey == nil {
		return nil, domain.GenderUnknown, nil
	}

	vector, gender, ok := BuildPreference(survey.ResponseData, vocabulary)
	if !ok {
		logger.Warn("survey has no gender preference", "user_id", userID)
		return nil, domain.GenderUnknown, nil
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, prefKey, cachedPreference{
			Vector:     vector,
			Gender:     gender,
			Vocabulary: vocabulary,
		}, s.cfg.PreferenceTTL)
	}
	return vector, gender, nil
}

// ---- scoring ----

// filterByGender applies the exact candidate policy: male users see
// {male, unisex}, female users see {female, unisex}, unisex users see
// only unisex, and an unknown preference degrades to no filtering.
func filterByGender(items []MatrixItem, gender domain.Gender) []MatrixItem {
	var keep func(domain.Gender) bool

	switch gender {
	case domain.GenderMale:
		keep = func(g domain.Gender) bool { return g == domain.GenderMale || g == domain.GenderUnisex }
	case domain.GenderFemale:
		keep = func(g domain.Gender) bool { return g == domain.GenderFemale || g == domain.GenderUnisex }
	case domain.GenderUnisex:
		keep = func(g domain.Gender) bool { return g == domain.GenderUnisex }
	default:
		logger.Warn("unknown gender preference, skipping gender filter", "gender", gender)
		return items
	}

	out := make([]MatrixItem, 0, len(items))
	for _, item := range items {
		if keep(item.Gender) {
			out = append(out, item)
		}
	}
	return out
}

// scoreCandidates computes dot-product similarity, adds the popularity
// boost, min-max normalizes to [0,1] and returns the ranked list with
// three-decimal scores. Ties break on perfume ID ascending.
func scoreCandidates(candidates []MatrixItem, preference []float64, alpha float64) ([]domain.MatchResult, error) {
	boosted := make([]float64, len(candidates))

	for i, item := range candidates {
		if len(item.Weights) != len(preference) {
			return nil, fmt.Errorf("%w: matrix=%d preference=%d",
				ErrDimensionMismatch, len(item.Weights), len(preference))
		}

		similarity := 0.0
		for j, w := range item.Weights {
			similarity += w * preference[j]
		}

		boost := math.Log1p(item.Popularity) +
			math.Log1p(item.RatingCount) +
			math.Log1p(item.OverallRating)

		boosted[i] = similarity + alpha*boost
	}

	minScore, maxScore := boosted[0], boosted[0]
	for _, v := range boosted[1:] {
		if v < minScore {
			minScore = v
		}
		if v > maxScore {
			maxScore = v
		}
	}

	results := make([]domain.MatchResult, len(candidates))
	for i, item := range candidates {
		score := 0.5
		if maxScore > minScore {
			score = (boosted[i] - minScore) / (maxScore - minScore)
		}
		results[i] = domain.MatchResult{
			PerfumeID: item.PerfumeID,
			Score:     roundScore(score),
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PerfumeID < results[j].PerfumeID
	})

	return results, nil
}

// roundScore fixes scores at three decimal places to match the persisted
// numeric(4,3) column.
func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}
