package assignment

import (
	"math/rand"
	"sync"
	"time"

	"review-service/internal/domain"
)

// MaxReviewers is the reviewer slot limit per pull request.
const MaxReviewers = 2

// EligiblePool applies the shared eligibility predicate: active members of
// the supplied team roster, excluding the PR author, the PR's current
// reviewers and any caller-supplied exclusion set (e.g. the whole batch
// during a bulk deactivation).
func EligiblePool(members []domain.User, authorID string, currentReviewers, excluded []string) []domain.User {
	blocked := make(map[string]struct{}, len(currentReviewers)+len(excluded)+1)
	blocked[authorID] = struct{}{}
	for _, id := range currentReviewers {
		blocked[id] = struct{}{}
	}
	for _, id := range excluded {
		blocked[id] = struct{}{}
	}

	pool := make([]domain.User, 0, len(members))
	for _, m := range members {
		if !m.CanBeReviewer() {
			continue
		}
		if _, ok := blocked[m.UserID]; ok {
			continue
		}
		pool = append(pool, m)
	}
	return pool
}

// Strategy implements reviewer selection. Selection is uniform over the
// supplied pool; no fairness beyond that is promised.
type Strategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStrategy creates a strategy seeded from the clock.
func NewStrategy() *Strategy {
	return NewStrategyWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewStrategyWithSource creates a strategy with an explicit source so tests
// can pin the outcome.
func NewStrategyWithSource(src rand.Source) *Strategy {
	return &Strategy{rng: rand.New(src)}
}

// SelectReviewers chooses up to MaxReviewers distinct users from the pool,
// fewer when the pool is smaller. An empty pool yields an empty list.
func (s *Strategy) SelectReviewers(pool []domain.User) []string {
	if len(pool) == 0 {
		return []string{}
	}

	candidates := make([]domain.User, len(pool))
	copy(candidates, pool)

	s.mu.Lock()
	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	s.mu.Unlock()

	n := MaxReviewers
	if len(candidates) < n {
		n = len(candidates)
	}

	reviewers := make([]string, n)
	for i := 0; i < n; i++ {
		reviewers[i] = candidates[i].UserID
	}
	return reviewers
}

// SelectReplacement chooses exactly one user from the pool.
func (s *Strategy) SelectReplacement(pool []domain.User) (string, error) {
	if len(pool) == 0 {
		return "", domain.ErrNoCandidate
	}

	s.mu.Lock()
	idx := s.rng.Intn(len(pool))
	s.mu.Unlock()

	return pool[idx].UserID, nil
}
