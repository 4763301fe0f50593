package domain

import "time"

type PRStatus string

const (
	PRStatusOpen   PRStatus = "OPEN"
	PRStatusMerged PRStatus = "MERGED"
)

// PullRequest holds the reviewer set as an ordered list. Order carries no
// meaning but stays stable across reads so responses serialize
// deterministically; uniqueness of entries is an invariant.
type PullRequest struct {
	PullRequestID     string
	PullRequestName   string
	AuthorID          string
	Status            PRStatus
	AssignedReviewers []string
	CreatedAt         time.Time
	MergedAt          *time.Time
}

func NewPullRequest(prID, prName, authorID string) PullRequest {
	return PullRequest{
		PullRequestID:     prID,
		PullRequestName:   prName,
		AuthorID:          authorID,
		Status:            PRStatusOpen,
		AssignedReviewers: make([]string, 0),
		CreatedAt:         time.Now(),
		MergedAt:          nil,
	}
}

func (pr *PullRequest) IsMerged() bool {
	return pr.Status == PRStatusMerged
}

// Merge transitions OPEN -> MERGED and stamps merged_at exactly once.
// Calling it on a merged PR is a no-op.
func (pr *PullRequest) Merge() {
	if pr.IsMerged() {
		return
	}
	pr.Status = PRStatusMerged
	now := time.Now()
	pr.MergedAt = &now
}

func (pr *PullRequest) IsReviewerAssigned(userID string) bool {
	for _, rid := range pr.AssignedReviewers {
		if rid == userID {
			return true
		}
	}
	return false
}

// ReplaceReviewer swaps oldUserID for newUserID, keeping the slot position.
func (pr *PullRequest) ReplaceReviewer(oldUserID, newUserID string) error {
	if pr.IsMerged() {
		return ErrPRMerged
	}
	for i, rid := range pr.AssignedReviewers {
		if rid == oldUserID {
			pr.AssignedReviewers[i] = newUserID
			return nil
		}
	}
	return ErrNotAssigned
}

// RemoveReviewer drops the slot without replacement. Used by the
// deactivation cascade when the eligibility pool is empty.
func (pr *PullRequest) RemoveReviewer(userID string) error {
	if pr.IsMerged() {
		return ErrPRMerged
	}
	for i, rid := range pr.AssignedReviewers {
		if rid == userID {
			pr.AssignedReviewers = append(pr.AssignedReviewers[:i], pr.AssignedReviewers[i+1:]...)
			return nil
		}
	}
	return ErrNotAssigned
}

// SetReviewers replaces the whole reviewer set, dropping duplicates.
func (pr *PullRequest) SetReviewers(reviewers []string) {
	seen := make(map[string]struct{}, len(reviewers))
	unique := make([]string, 0, len(reviewers))
	for _, rid := range reviewers {
		if _, ok := seen[rid]; ok {
			continue
		}
		seen[rid] = struct{}{}
		unique = append(unique, rid)
	}
	pr.AssignedReviewers = unique
}
