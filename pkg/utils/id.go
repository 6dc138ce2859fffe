package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 生成 32 位十六进制主键（去掉连字符的 UUIDv4）
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
