package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"user-role-admin/internal/core/cache"
	"user-role-admin/internal/domain"
)

const msgRoleNameTaken = "Role name already exists"

type RoleService struct {
	repo  domain.RoleRepository
	log   *zap.Logger
	cache *cache.Typed[domain.Role]
}

func NewRoleService(repo domain.RoleRepository, l *zap.Logger) *RoleService {
	if l == nil {
		l = zap.NewNop()
	}
	return &RoleService{repo: repo, log: l}
}

// WithCache 开启按 id 的读缓存；c 为 nil 时不生效
func (s *RoleService) WithCache(c *cache.Cache, ttl time.Duration) *RoleService {
	if c != nil {
		s.cache = cache.NewTyped[domain.Role](c, "role", ttl)
	}
	return s
}

type CreateRoleInput struct {
	Name        string
	Description string
}

func (s *RoleService) Create(ctx context.Context, in CreateRoleInput) (*domain.Role, error) {
	role := &domain.Role{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	if role.Name == "" {
		return nil, errRequired("Role", "name")
	}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, roleDup(err)
	}
	s.log.Info("role created", zap.String("id", role.ID), zap.String("name", role.Name))
	return role, nil
}

func (s *RoleService) List(ctx context.Context, q domain.RoleQuery) (domain.Page[domain.Role], error) {
	q.PageRequest = q.PageRequest.Normalize()
	roles, total, err := s.repo.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Role]{}, err
	}
	return domain.NewPage(roles, q.PageRequest, total), nil
}

func (s *RoleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	load := func(ctx context.Context) (*domain.Role, error) {
		r, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, domain.ErrRoleNotFound
		}
		return r, nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.Get(ctx, id, load)
}

func (s *RoleService) Update(ctx context.Context, id string, p domain.RolePatch) (*domain.Role, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, errRequired("Role", "name")
		}
		p.Name = &name
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		p.Description = &desc
	}
	role, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, roleDup(err)
	}
	if role == nil {
		return nil, domain.ErrRoleNotFound
	}
	s.invalidate(ctx, id)
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrRoleNotFound
	}
	s.invalidate(ctx, id)
	s.log.Info("role soft-deleted", zap.String("id", id))
	return nil
}

func (s *RoleService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Forget(ctx, id); err != nil {
		s.log.Warn("role cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
}

func roleDup(err error) error {
	var dup *domain.DuplicateError
	if errors.As(err, &dup) {
		return &domain.DuplicateError{Field: dup.Field, Msg: msgRoleNameTaken, Err: dup.Err}
	}
	return err
}
