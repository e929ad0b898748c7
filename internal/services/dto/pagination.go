package dto

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage приводит страницу к 1.. и размер страницы к 1..MaxPageSize
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize == 0:
		pageSize = DefaultPageSize
	case pageSize < 1:
		pageSize = 1
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return page, pageSize
}
