package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"user-role-admin/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// populated 不带 password，预加载角色摘要
func populated(tx *gorm.DB) *gorm.DB {
	return tx.Omit("password").Preload("Role", func(q *gorm.DB) *gorm.DB {
		return q.Select("id", "name", "description")
	})
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Omit("Role").Create(u).Error)
}

func (r *UserRepo) first(tx *gorm.DB, query string, args ...any) (*domain.User, error) {
	var u domain.User
	err := populated(tx).Where(query, args...).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx), "id = ? AND is_delete = ?", id, false)
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx), "username = ? AND is_delete = ?", username, false)
}

func (r *UserRepo) FindByEmailAndUsername(ctx context.Context, email, username string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx), "email = ? AND username = ? AND is_delete = ?", email, username, false)
}

func (r *UserRepo) List(ctx context.Context, in domain.UserQuery) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{}).Where("is_delete = ?", false)
	if in.Username != "" {
		q = q.Where("LOWER(username)"+likeClause, containsPattern(in.Username))
	}
	if in.FullName != "" {
		q = q.Where("LOWER(full_name)"+likeClause, containsPattern(in.FullName))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, 0, in.Limit)
	err := populated(q).Order(newestFirst).Offset(in.Offset()).Limit(in.Limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	var out *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.User
		// 同一事务内加行锁，判定不存在与写入基于同一快照
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").
			First(&cur, "id = ? AND is_delete = ?", id, false).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if upd := userPatchColumns(p); len(upd) > 0 {
			if err := tx.Model(&domain.User{ID: cur.ID}).Updates(upd).Error; err != nil {
				return err
			}
		}
		out, err = r.first(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND is_delete = ?", id, false).
		Update("is_delete", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func userPatchColumns(p domain.UserPatch) map[string]any {
	m := map[string]any{}
	if p.Username != nil {
		m["username"] = *p.Username
	}
	if p.Password != nil {
		m["password"] = *p.Password
	}
	if p.Email != nil {
		m["email"] = *p.Email
	}
	if p.FullName != nil {
		m["full_name"] = *p.FullName
	}
	if p.AvatarURL != nil {
		m["avatar_url"] = *p.AvatarURL
	}
	if p.Status != nil {
		m["status"] = *p.Status
	}
	if p.RoleID != nil {
		m["role_id"] = *p.RoleID
	}
	if p.LoginCount != nil {
		m["login_count"] = *p.LoginCount
	}
	return m
}
