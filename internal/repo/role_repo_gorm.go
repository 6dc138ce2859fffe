package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"user-role-admin/internal/domain"
)

type RoleRepo struct{ db *gorm.DB }

func NewRoleRepo(db *gorm.DB) *RoleRepo { return &RoleRepo{db: db} }

func (r *RoleRepo) Create(ctx context.Context, role *domain.Role) error {
	return translate(r.db.WithContext(ctx).Create(role).Error)
}

func (r *RoleRepo) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).First(&role, "id = ? AND is_delete = ?", id, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepo) List(ctx context.Context, in domain.RoleQuery) ([]domain.Role, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Role{}).Where("is_delete = ?", false)
	if in.Name != "" {
		q = q.Where("LOWER(name)"+likeClause, containsPattern(in.Name))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	roles := make([]domain.Role, 0, in.Limit)
	err := q.Order(newestFirst).Offset(in.Offset()).Limit(in.Limit).Find(&roles).Error
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *RoleRepo) Update(ctx context.Context, id string, p domain.RolePatch) (*domain.Role, error) {
	var out *domain.Role
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.Role
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&cur, "id = ? AND is_delete = ?", id, false).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if upd := rolePatchColumns(p); len(upd) > 0 {
			if err := tx.Model(&domain.Role{ID: cur.ID}).Updates(upd).Error; err != nil {
				return err
			}
			if err := tx.First(&cur, "id = ?", id).Error; err != nil {
				return err
			}
		}
		out = &cur
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *RoleRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Role{}).
		Where("id = ? AND is_delete = ?", id, false).
		Update("is_delete", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func rolePatchColumns(p domain.RolePatch) map[string]any {
	m := map[string]any{}
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	return m
}
