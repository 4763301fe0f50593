package pullrequest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-service/internal/domain"
	"review-service/internal/service/assignment"
)

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.UserID] = u
	}
	return r
}

func (r *fakeUserRepo) GetUser(_ context.Context, userID string) (domain.User, error) {
	if u, ok := r.users[userID]; ok {
		return u, nil
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *fakeUserRepo) GetTeamMembers(_ context.Context, teamName string) ([]domain.User, error) {
	var result []domain.User
	for _, u := range r.users {
		if u.TeamName == teamName {
			result = append(result, u)
		}
	}
	return result, nil
}

type fakePRRepo struct {
	prs map[string]domain.PullRequest
}

func newFakePRRepo() *fakePRRepo {
	return &fakePRRepo{prs: make(map[string]domain.PullRequest)}
}

func clonePR(pr domain.PullRequest) domain.PullRequest {
	reviewers := make([]string, len(pr.AssignedReviewers))
	copy(reviewers, pr.AssignedReviewers)
	pr.AssignedReviewers = reviewers
	return pr
}

func (r *fakePRRepo) CreatePR(_ context.Context, pr domain.PullRequest) error {
	if _, ok := r.prs[pr.PullRequestID]; ok {
		return domain.ErrPRExists
	}
	r.prs[pr.PullRequestID] = clonePR(pr)
	return nil
}

func (r *fakePRRepo) GetPR(_ context.Context, prID string) (domain.PullRequest, error) {
	if pr, ok := r.prs[prID]; ok {
		return clonePR(pr), nil
	}
	return domain.PullRequest{}, domain.ErrNotFound
}

func (r *fakePRRepo) GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error) {
	return r.GetPR(ctx, prID)
}

func (r *fakePRRepo) UpdatePR(_ context.Context, pr domain.PullRequest) error {
	if _, ok := r.prs[pr.PullRequestID]; !ok {
		return domain.ErrNotFound
	}
	r.prs[pr.PullRequestID] = clonePR(pr)
	return nil
}

func (r *fakePRRepo) ReplaceReviewer(_ context.Context, prID, oldUserID, newUserID string) error {
	pr, ok := r.prs[prID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := pr.ReplaceReviewer(oldUserID, newUserID); err != nil {
		return err
	}
	r.prs[prID] = pr
	return nil
}

func (r *fakePRRepo) PRExists(_ context.Context, prID string) (bool, error) {
	_, ok := r.prs[prID]
	return ok, nil
}

type noopTransactor struct{}

func (noopTransactor) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(userRepo *fakeUserRepo, prRepo *fakePRRepo) *Service {
	strategy := assignment.NewStrategyWithSource(rand.NewSource(1))
	return NewService(prRepo, userRepo, noopTransactor{}, strategy)
}

func backendTeam() *fakeUserRepo {
	return newFakeUserRepo(
		domain.NewUser("u1", "Alice", "backend", true),
		domain.NewUser("u2", "Bob", "backend", true),
		domain.NewUser("u3", "Charlie", "backend", true),
	)
}

func TestCreatePRAssignsReviewersFromAuthorsTeam(t *testing.T) {
	prRepo := newFakePRRepo()
	svc := newTestService(backendTeam(), prRepo)

	pr, err := svc.CreatePR(context.Background(), "p1", "Add search", "u1")
	require.NoError(t, err)

	assert.Equal(t, domain.PRStatusOpen, pr.Status)
	assert.Nil(t, pr.MergedAt)
	require.Len(t, pr.AssignedReviewers, 2)
	assert.NotContains(t, pr.AssignedReviewers, "u1")
	for _, id := range pr.AssignedReviewers {
		assert.Contains(t, []string{"u2", "u3"}, id)
	}
}

func TestCreatePRReviewerCountMatchesPool(t *testing.T) {
	userRepo := newFakeUserRepo(
		domain.NewUser("u1", "Alice", "backend", true),
		domain.NewUser("u2", "Bob", "backend", true),
		domain.NewUser("u3", "Charlie", "backend", false),
	)
	svc := newTestService(userRepo, newFakePRRepo())

	pr, err := svc.CreatePR(context.Background(), "p1", "Add search", "u1")
	require.NoError(t, err)

	require.Len(t, pr.AssignedReviewers, 1)
	assert.Equal(t, "u2", pr.AssignedReviewers[0])
}

func TestCreatePRWithoutCandidates(t *testing.T) {
	userRepo := newFakeUserRepo(domain.NewUser("u1", "Alice", "backend", true))
	svc := newTestService(userRepo, newFakePRRepo())

	pr, err := svc.CreatePR(context.Background(), "p1", "Solo work", "u1")
	require.NoError(t, err)
	assert.Empty(t, pr.AssignedReviewers)
}

func TestCreatePRAuthorNotFound(t *testing.T) {
	svc := newTestService(backendTeam(), newFakePRRepo())

	_, err := svc.CreatePR(context.Background(), "p1", "Add search", "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePRDuplicateID(t *testing.T) {
	svc := newTestService(backendTeam(), newFakePRRepo())

	_, err := svc.CreatePR(context.Background(), "p1", "First", "u1")
	require.NoError(t, err)

	_, err = svc.CreatePR(context.Background(), "p1", "Second", "u1")
	assert.ErrorIs(t, err, domain.ErrPRExists)
}

func TestMergePRIsIdempotent(t *testing.T) {
	svc := newTestService(backendTeam(), newFakePRRepo())

	_, err := svc.CreatePR(context.Background(), "p1", "Add search", "u1")
	require.NoError(t, err)

	first, err := svc.MergePR(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PRStatusMerged, first.Status)
	require.NotNil(t, first.MergedAt)

	second, err := svc.MergePR(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PRStatusMerged, second.Status)
	require.NotNil(t, second.MergedAt)
	assert.Equal(t, *first.MergedAt, *second.MergedAt)
}

func TestMergePRNotFound(t *testing.T) {
	svc := newTestService(backendTeam(), newFakePRRepo())

	_, err := svc.MergePR(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReassignReplacesExactlyOneSlot(t *testing.T) {
	userRepo := newFakeUserRepo(
		domain.NewUser("u1", "Alice", "backend", true),
		domain.NewUser("u2", "Bob", "backend", true),
		domain.NewUser("u3", "Charlie", "backend", true),
		domain.NewUser("u4", "David", "backend", true),
	)
	prRepo := newFakePRRepo()
	svc := newTestService(userRepo, prRepo)

	pr := domain.NewPullRequest("p1", "Add search", "u1")
	pr.SetReviewers([]string{"u2", "u3"})
	require.NoError(t, prRepo.CreatePR(context.Background(), pr))

	updated, newID, err := svc.ReassignReviewer(context.Background(), "p1", "u2")
	require.NoError(t, err)

	// u4 is the only eligible candidate
	assert.Equal(t, "u4", newID)
	assert.NotContains(t, updated.AssignedReviewers, "u2")
	assert.NotContains(t, updated.AssignedReviewers, "u1")
	require.Len(t, updated.AssignedReviewers, 2)
	assert.Contains(t, updated.AssignedReviewers, "u3")
	assert.Contains(t, updated.AssignedReviewers, "u4")
}

func TestReassignNoCandidate(t *testing.T) {
	// Team has only the author and the reviewer being replaced
	userRepo := newFakeUserRepo(
		domain.NewUser("u1", "Alice", "backend", true),
		domain.NewUser("u2", "Bob", "backend", true),
	)
	prRepo := newFakePRRepo()
	svc := newTestService(userRepo, prRepo)

	pr := domain.NewPullRequest("p1", "Add search", "u1")
	pr.SetReviewers([]string{"u2"})
	require.NoError(t, prRepo.CreatePR(context.Background(), pr))

	_, _, err := svc.ReassignReviewer(context.Background(), "p1", "u2")
	assert.ErrorIs(t, err, domain.ErrNoCandidate)
}

func TestReassignNotAssigned(t *testing.T) {
	prRepo := newFakePRRepo()
	svc := newTestService(backendTeam(), prRepo)

	pr := domain.NewPullRequest("p1", "Add search", "u1")
	pr.SetReviewers([]string{"u2"})
	require.NoError(t, prRepo.CreatePR(context.Background(), pr))

	_, _, err := svc.ReassignReviewer(context.Background(), "p1", "u3")
	assert.ErrorIs(t, err, domain.ErrNotAssigned)
}

func TestReassignMergedPR(t *testing.T) {
	prRepo := newFakePRRepo()
	svc := newTestService(backendTeam(), prRepo)

	pr := domain.NewPullRequest("p1", "Add search", "u1")
	pr.SetReviewers([]string{"u2"})
	pr.Merge()
	require.NoError(t, prRepo.CreatePR(context.Background(), pr))

	_, _, err := svc.ReassignReviewer(context.Background(), "p1", "u2")
	assert.ErrorIs(t, err, domain.ErrPRMerged)
}

func TestReassignPRNotFound(t *testing.T) {
	svc := newTestService(backendTeam(), newFakePRRepo())

	_, _, err := svc.ReassignReviewer(context.Background(), "missing", "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
