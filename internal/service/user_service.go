package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"user-role-admin/internal/domain"
	"user-role-admin/pkg/utils"
)

// RoleFinder 用户写入前校验角色存在
type RoleFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Role, error)
}

type UserService struct {
	repo  domain.UserRepository
	roles RoleFinder
	log   *zap.Logger
	hash  func(string) (string, error)
}

func NewUserService(repo domain.UserRepository, roles RoleFinder, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{repo: repo, roles: roles, log: l, hash: utils.HashPassword}
}

type CreateUserInput struct {
	Username  string
	Password  string
	Email     string
	FullName  string
	AvatarURL string
	Role      string
}

type UpdateUserInput struct {
	Username   *string
	Password   *string
	Email      *string
	FullName   *string
	AvatarURL  *string
	Status     *bool
	Role       *string
	LoginCount *int
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	u := &domain.User{
		Username:  strings.TrimSpace(in.Username),
		Email:     normalizeEmail(in.Email),
		FullName:  strings.TrimSpace(in.FullName),
		AvatarURL: strings.TrimSpace(in.AvatarURL),
		RoleID:    strings.TrimSpace(in.Role),
	}
	switch {
	case u.Username == "":
		return nil, errRequired("User", "username")
	case in.Password == "":
		return nil, errRequired("User", "password")
	case u.Email == "":
		return nil, errRequired("User", "email")
	case u.RoleID == "":
		return nil, errRequired("User", "role")
	}
	if err := s.checkRole(ctx, u.RoleID); err != nil {
		return nil, err
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hashed

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("id", u.ID), zap.String("username", u.Username))

	out, err := s.repo.FindByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.ErrUserNotFound
	}
	return out, nil
}

func (s *UserService) List(ctx context.Context, q domain.UserQuery) (domain.Page[domain.User], error) {
	q.PageRequest = q.PageRequest.Normalize()
	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(users, q.PageRequest, total), nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return found(s.repo.FindByID(ctx, id))
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return found(s.repo.FindByUsername(ctx, username))
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	var p domain.UserPatch
	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		if v == "" {
			return nil, errRequired("User", "username")
		}
		p.Username = &v
	}
	if in.Email != nil {
		v := normalizeEmail(*in.Email)
		if v == "" {
			return nil, errRequired("User", "email")
		}
		p.Email = &v
	}
	if in.FullName != nil {
		v := strings.TrimSpace(*in.FullName)
		p.FullName = &v
	}
	if in.AvatarURL != nil {
		v := strings.TrimSpace(*in.AvatarURL)
		p.AvatarURL = &v
	}
	if in.LoginCount != nil {
		if *in.LoginCount < 0 {
			return nil, errors.New("User validation failed: loginCount must be >= 0")
		}
		p.LoginCount = in.LoginCount
	}
	p.Status = in.Status
	if in.Role != nil {
		v := strings.TrimSpace(*in.Role)
		if v == "" {
			return nil, errRequired("User", "role")
		}
		if err := s.checkRole(ctx, v); err != nil {
			return nil, err
		}
		p.RoleID = &v
	}
	// 空密码视为未提交
	if in.Password != nil && *in.Password != "" {
		hashed, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		p.Password = &hashed
	}

	u, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	s.log.Info("user soft-deleted", zap.String("id", id))
	return nil
}

type VerifyResult struct {
	User          *domain.User
	AlreadyActive bool
}

// VerifyAndActivate 只做 inactive → active；已激活时原样返回
func (s *UserService) VerifyAndActivate(ctx context.Context, email, username string) (VerifyResult, error) {
	email, username = normalizeEmail(email), strings.TrimSpace(username)
	if email == "" || username == "" {
		return VerifyResult{}, domain.ErrVerifyFieldsRequired
	}
	u, err := s.repo.FindByEmailAndUsername(ctx, email, username)
	if err != nil {
		return VerifyResult{}, err
	}
	if u == nil {
		return VerifyResult{}, domain.ErrUserNotFoundByPair
	}
	if u.Status {
		return VerifyResult{User: u, AlreadyActive: true}, nil
	}

	active := true
	u, err = s.repo.Update(ctx, u.ID, domain.UserPatch{Status: &active})
	if err != nil {
		return VerifyResult{}, err
	}
	if u == nil {
		return VerifyResult{}, domain.ErrUserNotFoundByPair
	}
	s.log.Info("user activated", zap.String("id", u.ID), zap.String("username", u.Username))
	return VerifyResult{User: u}, nil
}

func (s *UserService) checkRole(ctx context.Context, id string) error {
	r, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return errors.New("User validation failed: role does not exist")
	}
	return nil
}

func found(u *domain.User, err error) (*domain.User, error) {
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
