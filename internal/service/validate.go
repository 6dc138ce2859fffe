package service

import "fmt"

// 必填校验失败按普通错误处理（HTTP 500 + 原始信息）
func errRequired(model, field string) error {
	return fmt.Errorf("%s validation failed: %s is required", model, field)
}
