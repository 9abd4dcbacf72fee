package directory

import (
	"mindconnect/internal/domain"
)

// TotalPages is never below one so a pager always has a current page.
func TotalPages(matches, pageSize int) int {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	pages := (matches + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices one page out of records after clamping page into range.
func Paginate(records []domain.Psychologist, page, pageSize int) domain.DirectoryPage {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	total := len(records)
	totalPages := TotalPages(total, pageSize)
	page = ClampPage(page, totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	items := make([]domain.Psychologist, 0, end-start)
	if start < end {
		items = append(items, records[start:end]...)
	}

	return domain.DirectoryPage{
		Items:        items,
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalMatches: total,
		PageSize:     pageSize,
	}
}
