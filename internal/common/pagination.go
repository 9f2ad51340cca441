// File: internal/common/pagination.go
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// The public feed is browsed in pages of 20; admins may ask for up to 50
// rows at once for the moderation queue.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// PaginationQuery holds pagination parameters bound from the request query.
type PaginationQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// GetPaginationParams extracts clamped pagination parameters from Gin context.
func GetPaginationParams(c *gin.Context) (page, pageSize int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil {
		page = DefaultPage
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		pageSize = DefaultPageSize
	}
	return clampPage(page), clampPageSize(pageSize)
}

// Offset calculates the offset for database queries.
func (pq *PaginationQuery) Offset() int {
	pq.Page = clampPage(pq.Page)
	return (pq.Page - 1) * pq.Limit()
}

// Limit calculates the limit for database queries.
func (pq *PaginationQuery) Limit() int {
	pq.PageSize = clampPageSize(pq.PageSize)
	return pq.PageSize
}

func clampPage(page int) int {
	if page <= 0 {
		return DefaultPage
	}
	return page
}

func clampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}
