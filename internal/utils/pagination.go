// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// Pageable describes a window over a result set: a 0-based page number
// and a page size.
type Pageable struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// Offset returns the row offset for this window.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// GetPageable reads page/size query parameters and applies the defaults.
func GetPageable(c *gin.Context) Pageable {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	return NewPageable(page, size)
}

// NewPageable normalizes raw page/size values.
func NewPageable(page, size int) Pageable {
	if page < 0 {
		page = 0
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Pageable{Page: page, Size: size}
}
