package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors. Infrastructure failures are wrapped with %w; these
// sentinels represent legitimate business outcomes, never transient faults.
var (
	// ErrNotFound - referenced entity does not exist (404)
	ErrNotFound = errors.New("resource not found")

	// ErrTeamExists - team name already taken (400)
	ErrTeamExists = errors.New("team_name already exists")

	// ErrPRExists - pull request id already taken (409)
	ErrPRExists = errors.New("PR id already exists")

	// ErrPRMerged - merged pull requests are frozen (409)
	ErrPRMerged = errors.New("cannot reassign on merged PR")

	// ErrNotAssigned - user is not in the PR's reviewer set (409)
	ErrNotAssigned = errors.New("reviewer is not assigned to this PR")

	// ErrNoCandidate - empty eligibility pool for replacement (409)
	ErrNoCandidate = errors.New("no active replacement candidate in team")

	// ErrInvalidArgument - malformed request (400)
	ErrInvalidArgument = errors.New("invalid argument")
)

type ErrorCode string

const (
	ErrorCodeTeamExists      ErrorCode = "TEAM_EXISTS"
	ErrorCodePRExists        ErrorCode = "PR_EXISTS"
	ErrorCodePRMerged        ErrorCode = "PR_MERGED"
	ErrorCodeNotAssigned     ErrorCode = "NOT_ASSIGNED"
	ErrorCodeNoCandidate     ErrorCode = "NO_CANDIDATE"
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrorCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// NewUsersNotFoundError reports the ids from a bulk request that do not
// resolve to users of the requested team. Wraps ErrNotFound so the usual
// status mapping applies while the message names the missing ids.
func NewUsersNotFoundError(userIDs []string) error {
	return fmt.Errorf("%w: users not found or not in team: %s",
		ErrNotFound, strings.Join(userIDs, ", "))
}

func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrTeamExists):
		return ErrorCodeTeamExists
	case errors.Is(err, ErrPRExists):
		return ErrorCodePRExists
	case errors.Is(err, ErrPRMerged):
		return ErrorCodePRMerged
	case errors.Is(err, ErrNotAssigned):
		return ErrorCodeNotAssigned
	case errors.Is(err, ErrNoCandidate):
		return ErrorCodeNoCandidate
	case errors.Is(err, ErrNotFound):
		return ErrorCodeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return ErrorCodeInvalidArgument
	default:
		return ""
	}
}

func GetHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrTeamExists), errors.Is(err, ErrInvalidArgument):
		return 400
	case errors.Is(err, ErrPRExists), errors.Is(err, ErrPRMerged),
		errors.Is(err, ErrNotAssigned), errors.Is(err, ErrNoCandidate):
		return 409
	default:
		return 500
	}
}
