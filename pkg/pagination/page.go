package pagination

import "fmt"

type PageSizeConfig struct {
	Default int
	Max     int
}

// Normalize applies defaults to a page request and rejects values out of range. A zero page
// means the first page and a zero page size means cfg.Default.
func Normalize(page, pageSize int, cfg PageSizeConfig) (int, int, error) {
	if page < 0 {
		return 0, 0, fmt.Errorf("page must be positive")
	}

	if page == 0 {
		page = 1
	}

	if pageSize < 0 {
		return 0, 0, fmt.Errorf("page size must be positive")
	}

	if pageSize == 0 {
		pageSize = cfg.Default
	}

	if cfg.Max > 0 && pageSize > cfg.Max {
		return 0, 0, fmt.Errorf("exceed the maximum of page size (%d)", cfg.Max)
	}

	if pageSize <= 0 {
		pageSize = 1
	}

	return page, pageSize, nil
}

func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// TotalPages is ceil(totalCount / pageSize).
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}

	return int((totalCount + int64(pageSize) - 1) / int64(pageSize))
}
