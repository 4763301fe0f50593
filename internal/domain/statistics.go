package domain

// PRStats holds pull request totals by status.
type PRStats struct {
	TotalPRs  int
	OpenPRs   int
	MergedPRs int
}

// UserReviewStats holds assignment counts for one reviewer.
type UserReviewStats struct {
	UserID           string
	Username         string
	AssignmentsCount int
}

// Statistics is the aggregate report: PR totals plus per-user assignment
// counts sorted by count descending.
type Statistics struct {
	PRStats         PRStats
	UserReviewStats []UserReviewStats
}
