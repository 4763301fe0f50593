package domain

import "time"

// User represents a team member. A user belongs to exactly one team at a
// time; re-adding an existing user id via team creation moves them.
type User struct {
	UserID    string
	Username  string
	TeamName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a new user
func NewUser(userID, username, teamName string, isActive bool) User {
	now := time.Now()
	return User{
		UserID:    userID,
		Username:  username,
		TeamName:  teamName,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetIsActive sets the user's active status
func (u *User) SetIsActive(isActive bool) {
	u.IsActive = isActive
	u.UpdatedAt = time.Now()
}

// CanBeReviewer checks if user can be assigned as reviewer
func (u *User) CanBeReviewer() bool {
	return u.IsActive
}
