package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"user-role-admin/pkg/utils"
)

type User struct {
	ID         string    `gorm:"primaryKey;size:32" json:"_id"`
	Username   string    `gorm:"uniqueIndex:uq_users_username;size:191;not null" json:"username"`
	Password   string    `gorm:"size:100;not null" json:"-"`
	Email      string    `gorm:"uniqueIndex:uq_users_email;size:191;not null" json:"email"`
	FullName   string    `gorm:"index;size:255;not null;default:''" json:"fullName"`
	AvatarURL  string    `gorm:"column:avatar_url;size:1024;not null;default:''" json:"avatarUrl"`
	Status     bool      `gorm:"index;not null;default:false" json:"status"`
	RoleID     string    `gorm:"size:32;not null;index" json:"-"`
	Role       *RoleRef  `gorm:"foreignKey:RoleID" json:"role"`
	LoginCount int       `gorm:"not null;default:0" json:"loginCount"`
	IsDelete   bool      `gorm:"index;not null;default:false" json:"isDelete"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	return nil
}

// UserPatch nil 字段不更新；Password 已是哈希值
type UserPatch struct {
	Username   *string
	Password   *string
	Email      *string
	FullName   *string
	AvatarURL  *string
	Status     *bool
	RoleID     *string
	LoginCount *int
}

type UserQuery struct {
	Username string
	FullName string
	PageRequest
}

// UserRepository 读出的 User 均已 populate Role 且不带 Password
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmailAndUsername(ctx context.Context, email, username string) (*User, error)
	List(ctx context.Context, q UserQuery) ([]User, int64, error)
	Update(ctx context.Context, id string, p UserPatch) (*User, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}
