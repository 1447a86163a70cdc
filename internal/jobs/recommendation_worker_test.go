//go:build !integration

package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sille/business/recommendation"
	"sille/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecommender struct {
	mu      sync.Mutex
	results []domain.MatchResult
	err     error
	calls   int
}

func (f *fakeRecommender) Generate(ctx context.Context, userID uint) ([]domain.MatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.results, f.err
}

type fakeMatchStore struct {
	mu       sync.Mutex
	replaced map[uint][]domain.MatchResult
	deleted  []uint
	err      error
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{replaced: make(map[uint][]domain.MatchResult)}
}

func (f *fakeMatchStore) ReplaceForUser(ctx context.Context, userID uint, results []domain.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.replaced[userID] = results
	return nil
}

func (f *fakeMatchStore) DeleteForUser(ctx context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

func newTestWorker(rec *fakeRecommender, store *fakeMatchStore) *RecommendationWorker {
	return NewRecommendationWorker(rec, store, 8, 1, 0, time.Millisecond)
}

func TestProcessPersistsRankedList(t *testing.T) {
	rec := &fakeRecommender{results: []domain.MatchResult{
		{PerfumeID: 1, Score: 1.0},
		{PerfumeID: 2, Score: 0.5},
	}}
	store := newFakeMatchStore()

	newTestWorker(rec, store).process(context.Background(), 7)

	require.Contains(t, store.replaced, uint(7))
	assert.Len(t, store.replaced[7], 2)
	assert.Empty(t, store.deleted)
}

func TestProcessClearsOnEmptyList(t *testing.T) {
	rec := &fakeRecommender{results: []domain.MatchResult{}}
	store := newFakeMatchStore()

	newTestWorker(rec, store).process(context.Background(), 7)

	assert.Equal(t, []uint{7}, store.deleted)
	assert.Empty(t, store.replaced)
}

func TestProcessKeepsRowsWhenNotPossible(t *testing.T) {
	rec := &fakeRecommender{err: recommendation.ErrNotPossible}
	store := newFakeMatchStore()

	newTestWorker(rec, store).process(context.Background(), 7)

	assert.Empty(t, store.replaced)
	assert.Empty(t, store.deleted)
	// a permanent outcome must not burn retries
	assert.Equal(t, 1, rec.calls)
}

func TestProcessKeepsRowsOnFailure(t *testing.T) {
	rec := &fakeRecommender{err: errors.New("db down")}
	store := newFakeMatchStore()

	newTestWorker(rec, store).process(context.Background(), 7)

	assert.Empty(t, store.replaced)
	assert.Empty(t, store.deleted)
}

func TestProcessRetriesTransientFailure(t *testing.T) {
	rec := &fakeRecommender{err: errors.New("db down")}
	store := newFakeMatchStore()
	w := NewRecommendationWorker(rec, store, 8, 1, 2, time.Millisecond)

	w.process(context.Background(), 7)

	assert.Equal(t, 3, rec.calls, "expected the initial attempt plus two retries")
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	w := NewRecommendationWorker(&fakeRecommender{}, newFakeMatchStore(), 1, 1, 0, time.Millisecond)

	// the pool is not started, so the first job fills the queue
	assert.True(t, w.Enqueue(1))
	assert.False(t, w.Enqueue(2))
}

func TestWorkerPoolDrainsQueue(t *testing.T) {
	rec := &fakeRecommender{results: []domain.MatchResult{{PerfumeID: 1, Score: 0.5}}}
	store := newFakeMatchStore()
	w := NewRecommendationWorker(rec, store, 8, 2, 0, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	for userID := uint(1); userID <= 5; userID++ {
		require.True(t, w.Enqueue(userID))
	}

	deadline := time.After(2 * time.Second)
	for {
		store.mu.Lock()
		done := len(store.replaced) == 5
		store.mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("queue did not drain in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	w.Stop()
}
