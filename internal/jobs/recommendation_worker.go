package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"sille/business/recommendation"
	"sille/domain"
	"sille/pkg/logger"
	"sille/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

type Recommender interface {
	Generate(ctx context.Context, userID uint) ([]domain.MatchResult, error)
}

type MatchStore interface {
	ReplaceForUser(ctx context.Context, userID uint, results []domain.MatchResult) error
	DeleteForUser(ctx context.Context, userID uint) error
}

// RecommendationWorker consumes one job per survey submission and
// refreshes that user's persisted match rows. Jobs for different users
// are independent and run in parallel across the pool; failures retry a
// bounded number of times with exponential backoff.
type RecommendationWorker struct {
	recommender Recommender
	matches     MatchStore

	queue         chan uint
	workers       int
	maxRetries    uint64
	retryInterval time.Duration

	wg sync.WaitGroup
}

func NewRecommendationWorker(
	recommender Recommender,
	matches MatchStore,
	queueSize int,
	workers int,
	maxRetries int,
	retryInterval time.Duration,
) *RecommendationWorker {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &RecommendationWorker{
		recommender:   recommender,
		matches:       matches,
		queue:         make(chan uint, queueSize),
		workers:       workers,
		maxRetries:    uint64(maxRetries),
		retryInterval: retryInterval,
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled;
// Stop waits for in-flight jobs to drain.
func (w *RecommendationWorker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case userID := <-w.queue:
					w.process(ctx, userID)
				}
			}
		}()
	}
}

func (w *RecommendationWorker) Stop() {
	w.wg.Wait()
}

// Enqueue schedules a regeneration for the user. Returns false when the
// queue is full; the job is dropped and the caller may resubmit.
func (w *RecommendationWorker) Enqueue(userID uint) bool {
	select {
	case w.queue <- userID:
		return true
	default:
		logger.Warn("recommendation queue full, dropping job", "user_id", userID)
		return false
	}
}

// process runs one regeneration job with bounded retries. The three
// outcomes map to distinct persisted states: a ranked list replaces the
// user's matches, an empty list clears them, and "not possible" leaves
// them untouched so stale-but-valid results survive transient survey
// gaps.
func (w *RecommendationWorker) process(ctx context.Context, userID uint) {
	start := time.Now()
	jobID := uuid.NewString()

	var results []domain.MatchResult

	operation := func() error {
		var err error
		results, err = w.recommender.Generate(ctx, userID)
		if errors.Is(err, recommendation.ErrNotPossible) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.retryInterval

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, w.maxRetries), ctx))

	metrics.RecommendGenerateDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, recommendation.ErrNotPossible):
		logger.Info("recommendations not possible for user, keeping existing matches",
			"job_id", jobID, "user_id", userID)
		metrics.RecommendJobsTotal.WithLabelValues("not_possible").Inc()
		return
	case err != nil:
		logger.Error("recommendation job failed after retries",
			"job_id", jobID, "user_id", userID, "error", err)
		metrics.RecommendJobsTotal.WithLabelValues("failed").Inc()
		return
	}

	if len(results) == 0 {
		if err := w.matches.DeleteForUser(ctx, userID); err != nil {
			logger.Error("failed to clear matches", "job_id", jobID, "user_id", userID, "error", err)
			metrics.RecommendJobsTotal.WithLabelValues("failed").Inc()
			return
		}
		logger.Info("no eligible candidates, cleared matches", "job_id", jobID, "user_id", userID)
		metrics.RecommendJobsTotal.WithLabelValues("cleared").Inc()
		return
	}

	if err := w.matches.ReplaceForUser(ctx, userID, results); err != nil {
		logger.Error("failed to persist matches", "job_id", jobID, "user_id", userID, "error", err)
		metrics.RecommendJobsTotal.WithLabelValues("failed").Inc()
		return
	}

	logger.Info("matches updated", "job_id", jobID, "user_id", userID, "count", len(results))
	metrics.RecommendJobsTotal.WithLabelValues("updated").Inc()
}
