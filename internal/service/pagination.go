package service

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage clamps paging arguments to sane values
func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
