package models

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes TotalPages as ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = total / limit
		if total%limit != 0 {
			totalPages++
		}
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Page is the list envelope returned by every paginated endpoint.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewPage[T any](data []T, page, limit, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Pagination: NewPagination(page, limit, total)}
}
