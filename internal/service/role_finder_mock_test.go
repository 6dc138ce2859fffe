package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"user-role-admin/internal/domain"
	"user-role-admin/internal/repo"
)

type roleFinder struct{ mock.Mock }

func (m *roleFinder) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func TestUserCreateRoleLookupFails(t *testing.T) {
	boom := errors.New("connection refused")
	roles := &roleFinder{}
	roles.On("FindByID", mock.Anything, "r1").Return(nil, boom).Once()

	users := repo.NewMemUserRepo(repo.NewMemRoleRepo())
	svc := NewUserService(users, roles, nil)
	svc.hash = fakeHash

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username: "a", Password: "x", Email: "a@example.com", Role: " r1 ",
	})
	assert.ErrorIs(t, err, boom)
	roles.AssertExpectations(t)

	_, total, err := users.List(context.Background(), domain.UserQuery{PageRequest: domain.PageRequest{}.Normalize()})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUserUpdateSkipsRoleLookupWithoutRole(t *testing.T) {
	roleRepo := repo.NewMemRoleRepo()
	r := &domain.Role{Name: "Admin"}
	require.NoError(t, roleRepo.Create(context.Background(), r))

	roles := &roleFinder{}
	roles.On("FindByID", mock.Anything, r.ID).Return(r, nil).Once()

	users := repo.NewMemUserRepo(roleRepo)
	svc := NewUserService(users, roles, nil)
	svc.hash = fakeHash

	u, err := svc.Create(context.Background(), CreateUserInput{
		Username: "a", Password: "x", Email: "a@example.com", Role: r.ID,
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), u.ID, UpdateUserInput{FullName: ptr("A")})
	require.NoError(t, err)
	roles.AssertNumberOfCalls(t, "FindByID", 1)
}
