package repo

import (
	"strings"
	"unicode"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"user-role-admin/internal/core/database"
	"user-role-admin/internal/domain"
)

// AutoMigrate 角色表先于用户表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Role{}, &domain.User{})
}

// translate 把唯一索引冲突转成 *domain.DuplicateError，其余原样返回
func translate(err error) error {
	if err == nil {
		return nil
	}
	if col, ok := database.DuplicateColumn(err); ok {
		return &domain.DuplicateError{Field: snakeToCamel(col), Err: err}
	}
	return err
}

// containsPattern 大小写不敏感的子串匹配，用 ! 转义通配符
func containsPattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

const likeClause = " LIKE ? ESCAPE '!'"

// 列表统一按创建时间倒序
var newestFirst = clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}

func snakeToCamel(s string) string {
	var b strings.Builder
	up := false
	for _, r := range s {
		if r == '_' {
			up = true
			continue
		}
		if up {
			r = unicode.ToUpper(r)
			up = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

var (
	_ domain.RoleRepository = (*RoleRepo)(nil)
	_ domain.UserRepository = (*UserRepo)(nil)
	_ domain.RoleRepository = (*MemRoleRepo)(nil)
	_ domain.UserRepository = (*MemUserRepo)(nil)
)
