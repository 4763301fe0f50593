package pullrequest

import (
	"context"
	"strings"

	"review-service/internal/db"
	"review-service/internal/domain"
	"review-service/internal/service/assignment"
)

type prRepository interface {
	CreatePR(ctx context.Context, pr domain.PullRequest) error
	GetPR(ctx context.Context, prID string) (domain.PullRequest, error)
	GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error)
	UpdatePR(ctx context.Context, pr domain.PullRequest) error
	ReplaceReviewer(ctx context.Context, prID, oldUserID, newUserID string) error
	PRExists(ctx context.Context, prID string) (bool, error)
}

type userRepository interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetTeamMembers(ctx context.Context, teamName string) ([]domain.User, error)
}

// Service owns the pull request lifecycle: creation with automatic reviewer
// assignment, the one-way OPEN -> MERGED transition, and single-slot
// reassignment.
type Service struct {
	prRepo         prRepository
	userRepo       userRepository
	transactor     db.Transactioner
	assignStrategy *assignment.Strategy
}

// NewService creates a new PR service
func NewService(
	prRepo prRepository,
	userRepo userRepository,
	transactor db.Transactioner,
	assignStrategy *assignment.Strategy,
) *Service {
	return &Service{
		prRepo:         prRepo,
		userRepo:       userRepo,
		transactor:     transactor,
		assignStrategy: assignStrategy,
	}
}

// CreatePR creates a PR and assigns up to two reviewers from the author's
// team. A duplicate id loses with ErrPRExists even under a concurrent race
// (primary key backstop in the repository).
func (s *Service) CreatePR(
	ctx context.Context,
	prID, prName, authorID string,
) (domain.PullRequest, error) {
	prID = strings.TrimSpace(prID)
	prName = strings.TrimSpace(prName)
	authorID = strings.TrimSpace(authorID)
	if prID == "" || prName == "" || authorID == "" {
		return domain.PullRequest{}, domain.ErrInvalidArgument
	}

	exists, err := s.prRepo.PRExists(ctx, prID)
	if err != nil {
		return domain.PullRequest{}, err
	}
	if exists {
		return domain.PullRequest{}, domain.ErrPRExists
	}

	author, err := s.userRepo.GetUser(ctx, authorID)
	if err != nil {
		return domain.PullRequest{}, err
	}

	teamMembers, err := s.userRepo.GetTeamMembers(ctx, author.TeamName)
	if err != nil {
		return domain.PullRequest{}, err
	}

	pool := assignment.EligiblePool(teamMembers, authorID, nil, nil)
	reviewerIDs := s.assignStrategy.SelectReviewers(pool)

	pr := domain.NewPullRequest(prID, prName, authorID)
	pr.SetReviewers(reviewerIDs)

	err = s.transactor.Do(ctx, func(txCtx context.Context) error {
		return s.prRepo.CreatePR(txCtx, pr)
	})
	if err != nil {
		return domain.PullRequest{}, err
	}

	return pr, nil
}

// MergePR marks the PR as merged. Merging an already-merged PR returns the
// stored state unchanged, merge timestamp included.
func (s *Service) MergePR(ctx context.Context, prID string) (domain.PullRequest, error) {
	prID = strings.TrimSpace(prID)
	if prID == "" {
		return domain.PullRequest{}, domain.ErrInvalidArgument
	}

	var pr domain.PullRequest
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		var err error
		pr, err = s.prRepo.GetPRForUpdate(txCtx, prID)
		if err != nil {
			return err
		}

		if pr.IsMerged() {
			return nil
		}

		pr.Merge()
		return s.prRepo.UpdatePR(txCtx, pr)
	})
	if err != nil {
		return domain.PullRequest{}, err
	}

	return pr, nil
}

// ReassignReviewer replaces one assigned reviewer with another member of
// that reviewer's team. The PR row stays locked while the slot is swapped,
// so concurrent mutations of the same PR serialize.
func (s *Service) ReassignReviewer(
	ctx context.Context,
	prID, oldUserID string,
) (domain.PullRequest, string, error) {
	prID = strings.TrimSpace(prID)
	oldUserID = strings.TrimSpace(oldUserID)
	if prID == "" || oldUserID == "" {
		return domain.PullRequest{}, "", domain.ErrInvalidArgument
	}

	var (
		pr        domain.PullRequest
		newUserID string
	)
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		var err error
		pr, err = s.prRepo.GetPRForUpdate(txCtx, prID)
		if err != nil {
			return err
		}

		if pr.IsMerged() {
			return domain.ErrPRMerged
		}
		if !pr.IsReviewerAssigned(oldUserID) {
			return domain.ErrNotAssigned
		}

		oldUser, err := s.userRepo.GetUser(txCtx, oldUserID)
		if err != nil {
			return err
		}

		teamMembers, err := s.userRepo.GetTeamMembers(txCtx, oldUser.TeamName)
		if err != nil {
			return err
		}

		pool := assignment.EligiblePool(teamMembers, pr.AuthorID, pr.AssignedReviewers, nil)
		newUserID, err = s.assignStrategy.SelectReplacement(pool)
		if err != nil {
			return err
		}

		if err := s.prRepo.ReplaceReviewer(txCtx, prID, oldUserID, newUserID); err != nil {
			return err
		}

		return pr.ReplaceReviewer(oldUserID, newUserID)
	})
	if err != nil {
		return domain.PullRequest{}, "", err
	}

	return pr, newUserID, nil
}

// GetPR retrieves a pull request by id
func (s *Service) GetPR(ctx context.Context, prID string) (domain.PullRequest, error) {
	prID = strings.TrimSpace(prID)
	if prID == "" {
		return domain.PullRequest{}, domain.ErrInvalidArgument
	}
	return s.prRepo.GetPR(ctx, prID)
}
