package repository

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"review-service/internal/db"
	"review-service/internal/domain"
)

type prRepository struct {
	BaseRepository
}

// NewPRRepository creates a new pull request repository
func NewPRRepository(cm db.EngineFactory) PRRepository {
	return &prRepository{
		BaseRepository: NewBaseRepository(cm),
	}
}

// Reviewer slots live in pull_request_reviewers; every read aggregates them
// in insertion order so the reviewer list serializes deterministically.
const prSelect = `
	SELECT pr.pull_request_id, pr.pull_request_name, pr.author_id, pr.status,
	       pr.created_at, pr.merged_at,
	       COALESCE(r.reviewers, '{}'::text[]) AS assigned_reviewers
	FROM pull_requests pr
	LEFT JOIN LATERAL (
		SELECT array_agg(prr.user_id ORDER BY prr.id) AS reviewers
		FROM pull_request_reviewers prr
		WHERE prr.pull_request_id = pr.pull_request_id
	) r ON TRUE
`

// CreatePR persists a new PR with its reviewer slots. The loser of a
// duplicate-id race gets ErrPRExists from the primary key.
func (r *prRepository) CreatePR(ctx context.Context, pr domain.PullRequest) error {
	query := `
		INSERT INTO pull_requests (pull_request_id, pull_request_name, author_id, status, created_at, merged_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.Engine(ctx).Exec(ctx, query,
		pr.PullRequestID, pr.PullRequestName, pr.AuthorID, pr.Status, pr.CreatedAt, pr.MergedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPRExists
		}
		return fmt.Errorf("failed to create pull request: %w", err)
	}

	for _, reviewerID := range pr.AssignedReviewers {
		if err := r.addReviewer(ctx, pr.PullRequestID, reviewerID); err != nil {
			return err
		}
	}
	return nil
}

// GetPR retrieves a pull request with its reviewer list
func (r *prRepository) GetPR(ctx context.Context, prID string) (domain.PullRequest, error) {
	query := prSelect + ` WHERE pr.pull_request_id = $1`

	var pr domain.PullRequest
	err := pgxscan.Get(ctx, r.Engine(ctx), &pr, query, prID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.PullRequest{}, domain.ErrNotFound
		}
		return domain.PullRequest{}, fmt.Errorf("failed to get pull request: %w", err)
	}
	return pr, nil
}

// GetPRForUpdate locks the PR row for the duration of the surrounding
// transaction, then reads current state. Reviewer-set mutations go through
// this so concurrent writers of the same PR serialize.
func (r *prRepository) GetPRForUpdate(ctx context.Context, prID string) (domain.PullRequest, error) {
	lock := `SELECT pull_request_id FROM pull_requests WHERE pull_request_id = $1 FOR UPDATE`

	var locked string
	if err := r.Engine(ctx).QueryRow(ctx, lock, prID).Scan(&locked); err != nil {
		if pgxscan.NotFound(err) {
			return domain.PullRequest{}, domain.ErrNotFound
		}
		return domain.PullRequest{}, fmt.Errorf("failed to lock pull request: %w", err)
	}

	return r.GetPR(ctx, prID)
}

// UpdatePR writes status and merge timestamp. Merged rows never transition
// back; callers re-read under lock before updating.
func (r *prRepository) UpdatePR(ctx context.Context, pr domain.PullRequest) error {
	query := `
		UPDATE pull_requests
		SET status = $2, merged_at = $3
		WHERE pull_request_id = $1
	`
	tag, err := r.Engine(ctx).Exec(ctx, query, pr.PullRequestID, pr.Status, pr.MergedAt)
	if err != nil {
		return fmt.Errorf("failed to update pull request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceReviewer swaps one reviewer slot for another user.
func (r *prRepository) ReplaceReviewer(ctx context.Context, prID, oldUserID, newUserID string) error {
	if err := r.RemoveReviewer(ctx, prID, oldUserID); err != nil {
		return err
	}
	return r.addReviewer(ctx, prID, newUserID)
}

// RemoveReviewer drops one reviewer slot without replacement.
func (r *prRepository) RemoveReviewer(ctx context.Context, prID, userID string) error {
	query := `
		DELETE FROM pull_request_reviewers
		WHERE pull_request_id = $1 AND user_id = $2
	`
	tag, err := r.Engine(ctx).Exec(ctx, query, prID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove reviewer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotAssigned
	}
	return nil
}

func (r *prRepository) addReviewer(ctx context.Context, prID, userID string) error {
	query := `
		INSERT INTO pull_request_reviewers (pull_request_id, user_id)
		VALUES ($1, $2)
	`
	if _, err := r.Engine(ctx).Exec(ctx, query, prID, userID); err != nil {
		return fmt.Errorf("failed to add reviewer: %w", err)
	}
	return nil
}

// GetPRsByReviewer returns every PR where the user holds a reviewer slot.
func (r *prRepository) GetPRsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error) {
	query := prSelect + `
		WHERE EXISTS (
			SELECT 1 FROM pull_request_reviewers x
			WHERE x.pull_request_id = pr.pull_request_id AND x.user_id = $1
		)
		ORDER BY pr.created_at
	`
	var prs []domain.PullRequest
	if err := pgxscan.Select(ctx, r.Engine(ctx), &prs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get pull requests by reviewer: %w", err)
	}
	return prs, nil
}

// GetOpenPRsByReviewers returns OPEN PRs whose reviewer set intersects
// userIDs. Feeds the deactivation cascade.
func (r *prRepository) GetOpenPRsByReviewers(ctx context.Context, userIDs []string) ([]domain.PullRequest, error) {
	query := prSelect + `
		WHERE pr.status = 'OPEN' AND EXISTS (
			SELECT 1 FROM pull_request_reviewers x
			WHERE x.pull_request_id = pr.pull_request_id AND x.user_id = ANY($1)
		)
		ORDER BY pr.created_at
	`
	var prs []domain.PullRequest
	if err := pgxscan.Select(ctx, r.Engine(ctx), &prs, query, userIDs); err != nil {
		return nil, fmt.Errorf("failed to get open pull requests by reviewers: %w", err)
	}
	return prs, nil
}

// PRExists checks if a pull request exists
func (r *prRepository) PRExists(ctx context.Context, prID string) (bool, error) {
	query := `
		SELECT EXISTS(SELECT 1 FROM pull_requests WHERE pull_request_id = $1)
	`
	var exists bool
	if err := r.Engine(ctx).QueryRow(ctx, query, prID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pull request existence: %w", err)
	}
	return exists, nil
}

// GetPRStats returns pull request totals by status.
func (r *prRepository) GetPRStats(ctx context.Context) (domain.PRStats, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'OPEN') AS open,
		       COUNT(*) FILTER (WHERE status = 'MERGED') AS merged
		FROM pull_requests
	`
	var stats domain.PRStats
	err := r.Engine(ctx).QueryRow(ctx, query).Scan(&stats.TotalPRs, &stats.OpenPRs, &stats.MergedPRs)
	if err != nil {
		return domain.PRStats{}, fmt.Errorf("failed to get pull request stats: %w", err)
	}
	return stats, nil
}

// GetReviewerAssignmentCounts returns per-user assignment counts over all
// PRs, most loaded reviewers first.
func (r *prRepository) GetReviewerAssignmentCounts(ctx context.Context) ([]domain.UserReviewStats, error) {
	query := `
		SELECT u.user_id, u.username, COUNT(*) AS assignments_count
		FROM pull_request_reviewers prr
		JOIN users u ON u.user_id = prr.user_id
		GROUP BY u.user_id, u.username
		ORDER BY assignments_count DESC, u.user_id
	`
	var stats []domain.UserReviewStats
	if err := pgxscan.Select(ctx, r.Engine(ctx), &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get reviewer assignment counts: %w", err)
	}
	return stats, nil
}
