package directory

import (
	"mindconnect/internal/domain"
)

// Query is a complete directory request: what to match, how to order, which page.
type Query struct {
	Filters  domain.FilterSpec
	Sort     domain.SortKey
	Page     int
	PageSize int
}

// Run applies filter, sort and paginate in that order.
func Run(records []domain.Psychologist, q Query) domain.DirectoryPage {
	matched := Filter(records, q.Filters)
	sorted := Sort(matched, q.Sort)
	return Paginate(sorted, q.Page, q.PageSize)
}
