package handler

import (
	"strconv"
	"strings"

	"user-role-admin/internal/domain"
	resp "user-role-admin/internal/transport/http/response"
)

// pageQuery 非数字的 page/limit 回落到默认值
type pageQuery struct {
	Page  string `form:"page"`
	Limit string `form:"limit"`
}

func (q pageQuery) request() domain.PageRequest {
	return domain.PageRequest{Page: atoiDefault(q.Page, 0), Limit: atoiDefault(q.Limit, 0)}
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v > 0 {
		return v
	}
	return def
}

type pageOut[T any] struct{ p domain.Page[T] }

func (o pageOut[T]) Envelope() resp.Envelope {
	return resp.Paged(o.p.Items, resp.Pagination{
		Page:       o.p.Page,
		Limit:      o.p.Limit,
		Total:      o.p.Total,
		TotalPages: o.p.TotalPages(),
	})
}
