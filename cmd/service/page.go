package service

import (
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/errno"
)

type Page struct {
	Page  int `query:"page" json:"page"`
	Limit int `query:"limit" json:"limit"`
}

// normalize 零值表示未指定，取默认值；负数非法，limit 超过上限时截断
func (p Page) normalize() (Page, error) {
	if p.Page == 0 {
		p.Page = constants.DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = constants.DefaultLimit
	}
	if p.Page < 1 || p.Limit < 1 {
		return p, errno.InvalidInput.WithMessage("page and limit must be positive")
	}
	if p.Limit > constants.MaxLimit {
		p.Limit = constants.MaxLimit
	}
	return p, nil
}

func (p Page) offset() int {
	return (p.Page - 1) * p.Limit
}

type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
}

func newPageResult[T any](items []T, p Page, total int64) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	limit := int64(p.Limit)
	return &PageResult[T]{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: total,
		TotalPages: (total + limit - 1) / limit,
	}
}
