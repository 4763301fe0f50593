package user

import (
	"context"
	"sort"
	"strings"

	"review-service/internal/db"
	"review-service/internal/domain"
	"review-service/internal/service/assignment"
)

type userRepository interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	GetTeamMembers(ctx context.Context, teamName string) ([]domain.User, error)
	GetTeamUsersByIDs(ctx context.Context, teamName string, userIDs []string) ([]domain.User, error)
	DeactivateUsers(ctx context.Context, userIDs []string) error
}

type prRepository interface {
	GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error)
	GetPRsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error)
	GetOpenPRsByReviewers(ctx context.Context, userIDs []string) ([]domain.PullRequest, error)
	ReplaceReviewer(ctx context.Context, prID, oldUserID, newUserID string) error
	RemoveReviewer(ctx context.Context, prID, userID string) error
}

// Service handles user activation state and the deactivation cascade that
// repairs reviewer slots in open pull requests.
type Service struct {
	userRepo       userRepository
	prRepo         prRepository
	transactor     db.Transactioner
	assignStrategy *assignment.Strategy
}

// NewService creates a new user service
func NewService(
	userRepo userRepository,
	prRepo prRepository,
	transactor db.Transactioner,
	assignStrategy *assignment.Strategy,
) *Service {
	return &Service{
		userRepo:       userRepo,
		prRepo:         prRepo,
		transactor:     transactor,
		assignStrategy: assignStrategy,
	}
}

// SetIsActive updates the user's active flag. Deactivating an active user
// first runs the reviewer cascade over their open PRs; activation never
// cascades. Returns the user and the number of changed reviewer slots.
func (s *Service) SetIsActive(
	ctx context.Context,
	userID string,
	isActive bool,
) (domain.User, int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, 0, domain.ErrInvalidArgument
	}

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, 0, err
	}

	var reassignments []domain.Reassignment
	err = s.transactor.Do(ctx, func(txCtx context.Context) error {
		if !isActive && user.IsActive {
			var err error
			reassignments, err = s.reassignForDeactivation(txCtx, []domain.User{user})
			if err != nil {
				return err
			}
		}

		user.SetIsActive(isActive)
		return s.userRepo.UpdateUser(txCtx, user)
	})
	if err != nil {
		return domain.User{}, 0, err
	}

	return user, len(reassignments), nil
}

// BulkDeactivateTeamMembers deactivates the given team members in one shot.
// Every requested id must resolve to a user of that team; missing ids fail
// the whole call and are named in the error. Already-inactive users are
// skipped by the cascade but still included in the result, so the operation
// is idempotent. Returns the affected users and the total count of changed
// reviewer slots.
func (s *Service) BulkDeactivateTeamMembers(
	ctx context.Context,
	teamName string,
	userIDs []string,
) ([]domain.User, int, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" || len(userIDs) == 0 {
		return nil, 0, domain.ErrInvalidArgument
	}

	users, err := s.userRepo.GetTeamUsersByIDs(ctx, teamName, userIDs)
	if err != nil {
		return nil, 0, err
	}

	found := make(map[string]struct{}, len(users))
	for _, u := range users {
		found[u.UserID] = struct{}{}
	}
	var missing []string
	for _, id := range userIDs {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, 0, domain.NewUsersNotFoundError(missing)
	}

	batch := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.IsActive {
			batch = append(batch, u)
		}
	}

	var reassignments []domain.Reassignment
	err = s.transactor.Do(ctx, func(txCtx context.Context) error {
		if len(batch) > 0 {
			var err error
			reassignments, err = s.reassignForDeactivation(txCtx, batch)
			if err != nil {
				return err
			}
		}

		ids := make([]string, len(users))
		for i, u := range users {
			ids[i] = u.UserID
		}
		return s.userRepo.DeactivateUsers(txCtx, ids)
	})
	if err != nil {
		return nil, 0, err
	}

	for i := range users {
		users[i].SetIsActive(false)
	}

	return users, len(reassignments), nil
}

// GetUserReviews returns PRs where the user holds a reviewer slot.
func (s *Service) GetUserReviews(ctx context.Context, userID string) ([]domain.PullRequest, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	if _, err := s.userRepo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	return s.prRepo.GetPRsByReviewer(ctx, userID)
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.userRepo.GetUser(ctx, userID)
}

// reassignForDeactivation repairs every open PR that has one of the batch
// users as a reviewer. The replacement pool excludes the PR author, the
// current reviewer set and the entire batch; an empty pool drops the slot
// instead of failing, which is the intended degraded outcome here, unlike
// single-reviewer reassignment where an empty pool is ErrNoCandidate.
// Must run inside a transaction: each affected PR row is locked and re-read
// before its slots are touched.
func (s *Service) reassignForDeactivation(
	ctx context.Context,
	batch []domain.User,
) ([]domain.Reassignment, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	batchIDs := make([]string, len(batch))
	teamByUser := make(map[string]string, len(batch))
	for i, u := range batch {
		batchIDs[i] = u.UserID
		teamByUser[u.UserID] = u.TeamName
	}

	prs, err := s.prRepo.GetOpenPRsByReviewers(ctx, batchIDs)
	if err != nil {
		return nil, err
	}

	membersByTeam := make(map[string][]domain.User)
	var reassignments []domain.Reassignment

	for _, candidate := range prs {
		pr, err := s.prRepo.GetPRForUpdate(ctx, candidate.PullRequestID)
		if err != nil {
			return nil, err
		}
		if pr.IsMerged() {
			continue
		}

		for _, oldID := range batchIDs {
			if !pr.IsReviewerAssigned(oldID) {
				continue
			}

			teamName := teamByUser[oldID]
			members, ok := membersByTeam[teamName]
			if !ok {
				members, err = s.userRepo.GetTeamMembers(ctx, teamName)
				if err != nil {
					return nil, err
				}
				membersByTeam[teamName] = members
			}

			pool := assignment.EligiblePool(members, pr.AuthorID, pr.AssignedReviewers, batchIDs)
			if len(pool) > 0 {
				newID, err := s.assignStrategy.SelectReplacement(pool)
				if err != nil {
					return nil, err
				}
				if err := s.prRepo.ReplaceReviewer(ctx, pr.PullRequestID, oldID, newID); err != nil {
					return nil, err
				}
				if err := pr.ReplaceReviewer(oldID, newID); err != nil {
					return nil, err
				}
				reassignments = append(reassignments, domain.Reassignment{
					PullRequestID: pr.PullRequestID,
					OldUserID:     oldID,
					NewUserID:     newID,
				})
			} else {
				if err := s.prRepo.RemoveReviewer(ctx, pr.PullRequestID, oldID); err != nil {
					return nil, err
				}
				if err := pr.RemoveReviewer(oldID); err != nil {
					return nil, err
				}
				reassignments = append(reassignments, domain.Reassignment{
					PullRequestID: pr.PullRequestID,
					OldUserID:     oldID,
				})
			}
		}
	}

	return reassignments, nil
}
