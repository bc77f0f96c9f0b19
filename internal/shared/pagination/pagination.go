package pagination

import (
	"strconv"

	"hrcore/internal/shared/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
	Sort  string // SQL order clause, e.g. "created_at DESC"
}

// FromQuery reads page/page_size query params with sane bounds.
func FromQuery(c *gin.Context, defaultSort string) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit, Sort: defaultSort}
}

func (p Params) offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginate counts the filtered query, then fetches one page into dest.
// The caller builds the filter on query; ordering comes from p.Sort.
func Paginate(query *gorm.DB, p Params, dest interface{}) (response.PaginationMeta, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.PaginationMeta{}, err
	}

	q := query.Offset(p.offset()).Limit(p.Limit)
	if p.Sort != "" {
		q = q.Order(p.Sort)
	}
	if err := q.Find(dest).Error; err != nil {
		return response.PaginationMeta{}, err
	}

	return response.NewPaginationMeta(total, p.Page, p.Limit), nil
}
