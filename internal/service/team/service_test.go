package team

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-service/internal/domain"
)

type fakeTeamRepo struct {
	teams map[string]domain.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[string]domain.Team)}
}

func (r *fakeTeamRepo) CreateTeam(_ context.Context, team domain.Team) error {
	if _, ok := r.teams[team.TeamName]; ok {
		return domain.ErrTeamExists
	}
	r.teams[team.TeamName] = team
	return nil
}

func (r *fakeTeamRepo) GetTeam(_ context.Context, teamName string) (domain.Team, error) {
	if team, ok := r.teams[teamName]; ok {
		return team, nil
	}
	return domain.Team{}, domain.ErrNotFound
}

func (r *fakeTeamRepo) TeamExists(_ context.Context, teamName string) (bool, error) {
	_, ok := r.teams[teamName]
	return ok, nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (r *fakeUserRepo) CreateOrUpdateUser(_ context.Context, user domain.User) error {
	r.users[user.UserID] = user
	return nil
}

type noopTransactor struct{}

func (noopTransactor) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestCreateTeam(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	userRepo := newFakeUserRepo()
	svc := NewService(teamRepo, userRepo, noopTransactor{})

	members := []domain.User{
		{UserID: "u1", Username: "Alice", IsActive: true},
		{UserID: "u2", Username: "Bob", IsActive: false},
	}

	team, err := svc.CreateTeam(context.Background(), "backend", members)
	require.NoError(t, err)

	assert.Equal(t, "backend", team.TeamName)
	require.Len(t, team.Members, 2)

	stored, ok := userRepo.users["u1"]
	require.True(t, ok)
	assert.Equal(t, "backend", stored.TeamName)
	assert.True(t, stored.IsActive)

	stored, ok = userRepo.users["u2"]
	require.True(t, ok)
	assert.False(t, stored.IsActive)
}

func TestCreateTeamAlreadyExists(t *testing.T) {
	svc := NewService(newFakeTeamRepo(), newFakeUserRepo(), noopTransactor{})

	members := []domain.User{{UserID: "u1", Username: "Alice", IsActive: true}}

	_, err := svc.CreateTeam(context.Background(), "backend", members)
	require.NoError(t, err)

	_, err = svc.CreateTeam(context.Background(), "backend", members)
	assert.ErrorIs(t, err, domain.ErrTeamExists)
}

func TestCreateTeamMovesExistingUser(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	userRepo := newFakeUserRepo()
	svc := NewService(teamRepo, userRepo, noopTransactor{})

	_, err := svc.CreateTeam(context.Background(), "backend", []domain.User{
		{UserID: "u1", Username: "Alice", IsActive: true},
	})
	require.NoError(t, err)

	_, err = svc.CreateTeam(context.Background(), "platform", []domain.User{
		{UserID: "u1", Username: "Alice M.", IsActive: true},
	})
	require.NoError(t, err)

	stored := userRepo.users["u1"]
	assert.Equal(t, "platform", stored.TeamName)
	assert.Equal(t, "Alice M.", stored.Username)
}

func TestCreateTeamInvalidArguments(t *testing.T) {
	svc := NewService(newFakeTeamRepo(), newFakeUserRepo(), noopTransactor{})

	_, err := svc.CreateTeam(context.Background(), "  ", []domain.User{
		{UserID: "u1", Username: "Alice"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.CreateTeam(context.Background(), "backend", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.CreateTeam(context.Background(), "backend", []domain.User{
		{UserID: "", Username: "Alice"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGetTeam(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	svc := NewService(teamRepo, newFakeUserRepo(), noopTransactor{})

	_, err := svc.CreateTeam(context.Background(), "backend", []domain.User{
		{UserID: "u1", Username: "Alice", IsActive: true},
	})
	require.NoError(t, err)

	team, err := svc.GetTeam(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, "backend", team.TeamName)

	_, err = svc.GetTeam(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
