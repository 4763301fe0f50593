package domain

// Reassignment describes one changed reviewer slot. NewUserID is empty when
// the slot was dropped without replacement.
type Reassignment struct {
	PullRequestID string
	OldUserID     string
	NewUserID     string
}
