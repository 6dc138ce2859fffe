package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

type notFound struct{ msg string }

func (e notFound) Error() string      { return e.msg }
func (notFound) Is(target error) bool { return target == ErrNotFound }

type invalid struct{ msg string }

func (e invalid) Error() string      { return e.msg }
func (invalid) Is(target error) bool { return target == ErrInvalidInput }

// NotFound 返回 errors.Is(err, ErrNotFound) 为真的错误
func NotFound(msg string) error { return notFound{msg: msg} }

// Invalid 返回 errors.Is(err, ErrInvalidInput) 为真的错误
func Invalid(msg string) error { return invalid{msg: msg} }

var (
	ErrRoleNotFound         = NotFound("Role not found")
	ErrUserNotFound         = NotFound("User not found")
	ErrUserNotFoundByPair   = NotFound("User not found with provided email and username")
	ErrVerifyFieldsRequired = Invalid("Email and username are required")
)

// DuplicateError 唯一索引冲突；Field 为 JSON 字段名
type DuplicateError struct {
	Field string
	Msg   string
	Err   error
}

func (e *DuplicateError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return e.Field + " already exists"
	}
	return "duplicate key"
}

func (e *DuplicateError) Unwrap() error { return e.Err }
