package models

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Page is one page of a paginated query. Numbers are 1-based.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int64
	PerPage  int
}

func (p *Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page[T]) NextPageNumber() int {
	return p.Number + 1
}

func (p *Page[T]) PreviousPageNumber() int {
	return p.Number - 1
}

func (p *Page[T]) PageRange() []int {
	result := make([]int, p.NumPages)
	for i := range result {
		result[i] = i + 1
	}
	return result
}

// StartIndex is the 1-based index of the first item on the page.
func (p *Page[T]) StartIndex() int64 {
	if p.Count == 0 {
		return 0
	}
	return int64(p.PerPage*(p.Number-1)) + 1
}

// numPages never returns less than one, an empty list has one empty page.
func numPages(count int64, perPage int) int {
	if count == 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// pageNumber resolves the "page" query parameter leniently: anything that
// is not an integer gives the first page, anything out of range gives the
// last one.
func pageNumber(param string, pages int) int {
	n, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil {
		return 1
	}
	if n < 1 || n > pages {
		return pages
	}
	return n
}

// Paginate counts the rows matched by query and loads the requested page.
func Paginate[T any](query *gorm.DB, pageParam string, perPage int, preloads ...string) (*Page[T], error) {
	if perPage <= 0 {
		perPage = 10
	}
	page := &Page[T]{PerPage: perPage}
	if err := query.Session(&gorm.Session{}).Count(&page.Count).Error; err != nil {
		return nil, err
	}
	page.NumPages = numPages(page.Count, perPage)
	page.Number = pageNumber(pageParam, page.NumPages)

	find := query.Session(&gorm.Session{})
	for _, preload := range preloads {
		find = find.Preload(preload)
	}
	page.Items = []T{}
	err := find.Offset((page.Number - 1) * perPage).Limit(perPage).Find(&page.Items).Error
	return page, err
}
