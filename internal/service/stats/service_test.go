package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-service/internal/domain"
)

type fakePRRepo struct {
	prStats   domain.PRStats
	userStats []domain.UserReviewStats
	err       error
}

func (r *fakePRRepo) GetPRStats(_ context.Context) (domain.PRStats, error) {
	return r.prStats, r.err
}

func (r *fakePRRepo) GetReviewerAssignmentCounts(_ context.Context) ([]domain.UserReviewStats, error) {
	return r.userStats, r.err
}

func TestGetStatistics(t *testing.T) {
	repo := &fakePRRepo{
		prStats: domain.PRStats{TotalPRs: 5, OpenPRs: 3, MergedPRs: 2},
		userStats: []domain.UserReviewStats{
			{UserID: "u2", Username: "Bob", AssignmentsCount: 4},
			{UserID: "u1", Username: "Alice", AssignmentsCount: 1},
		},
	}
	svc := NewService(repo)

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, stats.PRStats.TotalPRs)
	assert.Equal(t, 3, stats.PRStats.OpenPRs)
	assert.Equal(t, 2, stats.PRStats.MergedPRs)

	require.Len(t, stats.UserReviewStats, 2)
	assert.GreaterOrEqual(t,
		stats.UserReviewStats[0].AssignmentsCount,
		stats.UserReviewStats[1].AssignmentsCount,
	)
}

func TestGetStatisticsRepoError(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := NewService(&fakePRRepo{err: repoErr})

	_, err := svc.GetStatistics(context.Background())
	assert.ErrorIs(t, err, repoErr)
}
