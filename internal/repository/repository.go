package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"review-service/internal/db"
	"review-service/internal/domain"
)

// TeamRepository defines methods for team data access
type TeamRepository interface {
	CreateTeam(ctx context.Context, team domain.Team) error
	GetTeam(ctx context.Context, teamName string) (domain.Team, error)
	TeamExists(ctx context.Context, teamName string) (bool, error)
}

// UserRepository defines methods for user data access
type UserRepository interface {
	CreateOrUpdateUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetTeamMembers(ctx context.Context, teamName string) ([]domain.User, error)
	GetTeamUsersByIDs(ctx context.Context, teamName string, userIDs []string) ([]domain.User, error)
	DeactivateUsers(ctx context.Context, userIDs []string) error
}

// PRRepository defines methods for pull request data access
type PRRepository interface {
	CreatePR(ctx context.Context, pr domain.PullRequest) error
	GetPR(ctx context.Context, prID string) (domain.PullRequest, error)
	GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error)
	UpdatePR(ctx context.Context, pr domain.PullRequest) error
	ReplaceReviewer(ctx context.Context, prID, oldUserID, newUserID string) error
	RemoveReviewer(ctx context.Context, prID, userID string) error
	GetPRsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error)
	GetOpenPRsByReviewers(ctx context.Context, userIDs []string) ([]domain.PullRequest, error)
	PRExists(ctx context.Context, prID string) (bool, error)
	GetPRStats(ctx context.Context) (domain.PRStats, error)
	GetReviewerAssignmentCounts(ctx context.Context) ([]domain.UserReviewStats, error)
}

type BaseRepository struct {
	cm db.EngineFactory
}

func NewBaseRepository(cm db.EngineFactory) BaseRepository {
	return BaseRepository{cm: cm}
}

func (r *BaseRepository) Engine(ctx context.Context) db.Engine {
	return r.cm.Get(ctx)
}

// isUniqueViolation reports whether err is a postgres duplicate-key error.
// Create races are recovered by re-signaling these as domain conflicts.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
