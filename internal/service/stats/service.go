package stats

import (
	"context"

	"review-service/internal/domain"
)

type prRepository interface {
	GetPRStats(ctx context.Context) (domain.PRStats, error)
	GetReviewerAssignmentCounts(ctx context.Context) ([]domain.UserReviewStats, error)
}

// Service is the read-only statistics aggregator.
type Service struct {
	prRepo prRepository
}

// NewService creates a new statistics service
func NewService(prRepo prRepository) *Service {
	return &Service{prRepo: prRepo}
}

// GetStatistics returns PR totals by status plus per-user assignment counts
// sorted by count descending.
func (s *Service) GetStatistics(ctx context.Context) (domain.Statistics, error) {
	prStats, err := s.prRepo.GetPRStats(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}

	userStats, err := s.prRepo.GetReviewerAssignmentCounts(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}

	return domain.Statistics{
		PRStats:         prStats,
		UserReviewStats: userStats,
	}, nil
}
