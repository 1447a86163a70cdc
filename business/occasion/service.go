package occasion

import (
	"context"
	"fmt"

	"sille/domain"
	"sille/pkg/logger"
	"sille/pkg/metrics"
)

// classifyTopAccords limits how many ranked accords feed the classifier;
// deeper accords carry no signal at position weight 1.
const classifyTopAccords = 5

type CatalogRepository interface {
	ListProfiles(ctx context.Context) ([]domain.PerfumeProfile, error)
	// GetProfile returns (nil, nil) when the perfume does not exist.
	GetProfile(ctx context.Context, perfumeID uint64) (*domain.PerfumeProfile, error)
}

type OccasionRepository interface {
	// ReplaceLabels swaps a perfume's occasion set atomically, creating
	// missing occasion rows on the fly.
	ReplaceLabels(ctx context.Context, perfumeID uint64, labels []string) error
}

// Service runs batch occasion reclassification over the catalog.
// Re-running it is safe: classification is a pure function of each
// perfume's accords.
type Service struct {
	catalogRepo  CatalogRepository
	occasionRepo OccasionRepository
	classifier   *Classifier
}

func NewService(catalogRepo CatalogRepository, occasionRepo OccasionRepository, classifier *Classifier) *Service {
	if classifier == nil {
		classifier = NewClassifier()
	}
	return &Service{
		catalogRepo:  catalogRepo,
		occasionRepo: occasionRepo,
		classifier:   classifier,
	}
}

// ClassifyPerfume tags a single perfume's ordered accords, truncated to
// the top five.
func (s *Service) ClassifyPerfume(accords []domain.RankedAccord) []string {
	if len(accords) > classifyTopAccords {
		accords = accords[:classifyTopAccords]
	}
	return s.classifier.Classify(accords)
}

// ClassifyPerfumeByID loads one perfume and returns its occasion labels
// without persisting anything.
func (s *Service) ClassifyPerfumeByID(ctx context.Context, perfumeID uint) ([]string, error) {
	profile, err := s.catalogRepo.GetProfile(ctx, uint64(perfumeID))
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("perfume %d not found", perfumeID)
	}
	return s.ClassifyPerfume(profile.Accords), nil
}

// ReclassifyAll retags every catalog perfume and returns how many
// perfumes received each label.
func (s *Service) ReclassifyAll(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	profiles, err := s.catalogRepo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load perfume profiles: %w", err)
	}

	counts := make(map[string]int)
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context error: %w", err)
		}

		labels := s.ClassifyPerfume(p.Accords)
		if err := s.occasionRepo.ReplaceLabels(ctx, p.PerfumeID, labels); err != nil {
			return nil, fmt.Errorf("failed to retag perfume %d: %w", p.PerfumeID, err)
		}

		for _, label := range labels {
			counts[label]++
		}
		metrics.OccasionReclassifiedTotal.Inc()
	}

	logger.Info("occasion reclassification finished",
		"perfumes", len(profiles), "labels", counts)

	return counts, nil
}
