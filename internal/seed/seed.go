package seed

import (
	"context"
	"fmt"

	"user-role-admin/internal/domain"
)

const DefaultPassword = "123456"

type roleSpec struct{ Name, Description string }

type userSpec struct {
	Username, Email, FullName string
	Status                    bool
	Role                      string // 角色名
	LoginCount                int
}

var roles = []roleSpec{
	{"Admin", "Administrator role with full access"},
	{"User", "Regular user role with limited access"},
	{"Moderator", "Moderator role with moderate access"},
}

var users = []userSpec{
	{"admin", "admin@example.com", "System Administrator", true, "Admin", 5},
	{"john_doe", "john.doe@example.com", "John Doe", false, "User", 0},
	{"jane_smith", "jane.smith@example.com", "Jane Smith", true, "Moderator", 3},
	{"bob_wilson", "bob.wilson@example.com", "Bob Wilson", false, "User", 0},
}

type Result struct {
	Roles []*domain.Role
	Users []*domain.User
}

// Run 写入示例角色与用户，所有用户共用同一个哈希后的密码
func Run(ctx context.Context, rr domain.RoleRepository, ur domain.UserRepository, hash func(string) (string, error)) (Result, error) {
	var res Result
	byName := make(map[string]string, len(roles))
	for _, s := range roles {
		r := &domain.Role{Name: s.Name, Description: s.Description}
		if err := rr.Create(ctx, r); err != nil {
			return res, fmt.Errorf("create role %s: %w", s.Name, err)
		}
		byName[r.Name] = r.ID
		res.Roles = append(res.Roles, r)
	}

	hashed, err := hash(DefaultPassword)
	if err != nil {
		return res, err
	}
	for _, s := range users {
		u := &domain.User{
			Username:   s.Username,
			Password:   hashed,
			Email:      s.Email,
			FullName:   s.FullName,
			Status:     s.Status,
			RoleID:     byName[s.Role],
			LoginCount: s.LoginCount,
		}
		if err := ur.Create(ctx, u); err != nil {
			return res, fmt.Errorf("create user %s: %w", s.Username, err)
		}
		out, err := ur.FindByID(ctx, u.ID)
		if err != nil {
			return res, err
		}
		res.Users = append(res.Users, out)
	}
	return res, nil
}
