package repo

import (
	"context"
	"errors"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-role-admin/internal/domain"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%jo%", containsPattern("JO"))
	assert.Equal(t, "%50!%%", containsPattern("50%"))
	assert.Equal(t, "%a!_b%", containsPattern("a_b"))
	assert.Equal(t, "%hi!!%", containsPattern("hi!"))
}

func TestSnakeToCamel(t *testing.T) {
	assert.Equal(t, "username", snakeToCamel("username"))
	assert.Equal(t, "fullName", snakeToCamel("full_name"))
	assert.Equal(t, "avatarUrl", snakeToCamel("avatar_url"))
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, translate(plain))

	err := translate(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'users.uq_users_email'"})
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	assert.Equal(t, "email already exists", dup.Error())
}

func TestMemRoleRepo(t *testing.T) {
	ctx := context.Background()
	r := NewMemRoleRepo()

	admin := &domain.Role{Name: "Admin"}
	require.NoError(t, r.Create(ctx, admin))
	require.NoError(t, r.Create(ctx, &domain.Role{Name: "User"}))
	assert.Len(t, admin.ID, 32)

	var dup *domain.DuplicateError
	require.ErrorAs(t, r.Create(ctx, &domain.Role{Name: "Admin"}), &dup)

	roles, total, err := r.List(ctx, domain.RoleQuery{PageRequest: domain.PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "User", roles[0].Name, "newest first")

	ok, err := r.SoftDelete(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = r.SoftDelete(ctx, admin.ID)
	assert.False(t, ok)

	got, err := r.FindByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// 软删后名字仍被占用
	require.ErrorAs(t, r.Create(ctx, &domain.Role{Name: "Admin"}), &dup)
}

func TestMemUserRepoPopulate(t *testing.T) {
	ctx := context.Background()
	roles := NewMemRoleRepo()
	users := NewMemUserRepo(roles)

	role := &domain.Role{Name: "Admin", Description: "all"}
	require.NoError(t, roles.Create(ctx, role))

	u := &domain.User{Username: "admin", Email: "admin@example.com", Password: "hash", RoleID: role.ID}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Password)
	require.NotNil(t, got.Role)
	assert.Equal(t, "Admin", got.Role.Name)
	assert.Equal(t, "hash", users.Password(u.ID))

	err = users.Create(ctx, &domain.User{Username: "other", Email: "admin@example.com", RoleID: role.ID})
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}
