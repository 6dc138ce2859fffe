package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"user-role-admin/internal/domain"
	"user-role-admin/pkg/utils"
)

// MemRoleRepo / MemUserRepo 进程内实现（db.driver=memory 与测试使用）
// 唯一性是全局的：软删记录仍占用 name / username / email
type MemRoleRepo struct {
	mu    sync.RWMutex
	roles []*domain.Role // 按插入顺序
	now   func() time.Time
}

func NewMemRoleRepo() *MemRoleRepo { return &MemRoleRepo{now: time.Now} }

func (r *MemRoleRepo) Create(_ context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.roles {
		if x.Name == role.Name {
			return &domain.DuplicateError{Field: "name"}
		}
	}
	if role.ID == "" {
		role.ID = utils.NewID()
	}
	now := r.now()
	role.CreatedAt, role.UpdatedAt = now, now
	cp := *role
	r.roles = append(r.roles, &cp)
	return nil
}

func (r *MemRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if x := r.find(id); x != nil && !x.IsDelete {
		cp := *x
		return &cp, nil
	}
	return nil, nil
}

func (r *MemRoleRepo) List(_ context.Context, q domain.RoleQuery) ([]domain.Role, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var hits []domain.Role
	for i := len(r.roles) - 1; i >= 0; i-- {
		x := r.roles[i]
		if x.IsDelete || !containsFold(x.Name, q.Name) {
			continue
		}
		hits = append(hits, *x)
	}
	return window(hits, q.PageRequest), int64(len(hits)), nil
}

func (r *MemRoleRepo) Update(_ context.Context, id string, p domain.RolePatch) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x := r.find(id)
	if x == nil || x.IsDelete {
		return nil, nil
	}
	if p.Name != nil && *p.Name != x.Name {
		for _, o := range r.roles {
			if o.Name == *p.Name {
				return nil, &domain.DuplicateError{Field: "name"}
			}
		}
		x.Name = *p.Name
	}
	if p.Description != nil {
		x.Description = *p.Description
	}
	x.UpdatedAt = r.now()
	cp := *x
	return &cp, nil
}

func (r *MemRoleRepo) SoftDelete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x := r.find(id)
	if x == nil || x.IsDelete {
		return false, nil
	}
	x.IsDelete = true
	x.UpdatedAt = r.now()
	return true, nil
}

func (r *MemRoleRepo) find(id string) *domain.Role {
	for _, x := range r.roles {
		if x.ID == id {
			return x
		}
	}
	return nil
}

// ref populate 不过滤软删，与数据库预加载一致
func (r *MemRoleRepo) ref(id string) *domain.RoleRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	x := r.find(id)
	if x == nil {
		return nil
	}
	return &domain.RoleRef{ID: x.ID, Name: x.Name, Description: x.Description}
}

type MemUserRepo struct {
	mu    sync.RWMutex
	users []*domain.User
	roles *MemRoleRepo
	now   func() time.Time
}

func NewMemUserRepo(roles *MemRoleRepo) *MemUserRepo {
	return &MemUserRepo{roles: roles, now: time.Now}
}

func (r *MemUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique("", u.Username, u.Email); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	cp.Role = nil
	r.users = append(r.users, &cp)
	return nil
}

func (r *MemUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.first(func(u *domain.User) bool { return u.ID == id }), nil
}

func (r *MemUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.first(func(u *domain.User) bool { return u.Username == username }), nil
}

func (r *MemUserRepo) FindByEmailAndUsername(_ context.Context, email, username string) (*domain.User, error) {
	return r.first(func(u *domain.User) bool { return u.Email == email && u.Username == username }), nil
}

func (r *MemUserRepo) List(_ context.Context, q domain.UserQuery) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var hits []domain.User
	for i := len(r.users) - 1; i >= 0; i-- {
		x := r.users[i]
		if x.IsDelete || !containsFold(x.Username, q.Username) || !containsFold(x.FullName, q.FullName) {
			continue
		}
		hits = append(hits, r.view(x))
	}
	return window(hits, q.PageRequest), int64(len(hits)), nil
}

func (r *MemUserRepo) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var x *domain.User
	for _, u := range r.users {
		if u.ID == id && !u.IsDelete {
			x = u
			break
		}
	}
	if x == nil {
		return nil, nil
	}
	username, email := x.Username, x.Email
	if p.Username != nil {
		username = *p.Username
	}
	if p.Email != nil {
		email = *p.Email
	}
	if err := r.checkUnique(x.ID, username, email); err != nil {
		return nil, err
	}
	x.Username, x.Email = username, email
	if p.Password != nil {
		x.Password = *p.Password
	}
	if p.FullName != nil {
		x.FullName = *p.FullName
	}
	if p.AvatarURL != nil {
		x.AvatarURL = *p.AvatarURL
	}
	if p.Status != nil {
		x.Status = *p.Status
	}
	if p.RoleID != nil {
		x.RoleID = *p.RoleID
	}
	if p.LoginCount != nil {
		x.LoginCount = *p.LoginCount
	}
	x.UpdatedAt = r.now()
	v := r.view(x)
	return &v, nil
}

func (r *MemUserRepo) SoftDelete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id && !u.IsDelete {
			u.IsDelete = true
			u.UpdatedAt = r.now()
			return true, nil
		}
	}
	return false, nil
}

// Password 只供测试校验哈希
func (r *MemUserRepo) Password(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u.Password
		}
	}
	return ""
}

func (r *MemUserRepo) first(match func(*domain.User) bool) *domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if !u.IsDelete && match(u) {
			v := r.view(u)
			return &v
		}
	}
	return nil
}

func (r *MemUserRepo) checkUnique(selfID, username, email string) error {
	for _, u := range r.users {
		if u.ID == selfID {
			continue
		}
		if u.Username == username {
			return &domain.DuplicateError{Field: "username"}
		}
		if u.Email == email {
			return &domain.DuplicateError{Field: "email"}
		}
	}
	return nil
}

func (r *MemUserRepo) view(u *domain.User) domain.User {
	v := *u
	v.Password = ""
	v.Role = r.roles.ref(u.RoleID)
	return v
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func window[T any](items []T, p domain.PageRequest) []T {
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+p.Limit, len(items))
	return items[start:end]
}
