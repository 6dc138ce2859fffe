package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"user-role-admin/pkg/utils"
)

type Role struct {
	ID          string    `gorm:"primaryKey;size:32" json:"_id"`
	Name        string    `gorm:"uniqueIndex:uq_roles_name;size:191;not null" json:"name"`
	Description string    `gorm:"size:1024;not null;default:''" json:"description"`
	IsDelete    bool      `gorm:"index;not null;default:false" json:"isDelete"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Role) TableName() string { return "roles" }

func (r *Role) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.NewID()
	}
	return nil
}

// RoleRef 用户响应里 populate 出来的角色摘要
type RoleRef struct {
	ID          string `gorm:"primaryKey;size:32" json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (RoleRef) TableName() string { return "roles" }

// RolePatch nil 字段不更新
type RolePatch struct {
	Name        *string
	Description *string
}

type RoleQuery struct {
	Name string
	PageRequest
}

type RoleRepository interface {
	Create(ctx context.Context, r *Role) error
	// FindByID 只查未软删记录；不存在返回 nil, nil
	FindByID(ctx context.Context, id string) (*Role, error)
	List(ctx context.Context, q RoleQuery) ([]Role, int64, error)
	// Update 不存在（或已软删）返回 nil, nil
	Update(ctx context.Context, id string, p RolePatch) (*Role, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}
