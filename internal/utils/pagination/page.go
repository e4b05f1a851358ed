package pagination

const (
	// DefaultPage is the page used when a request omits it.
	DefaultPage = 1
	// DefaultSize is the page size used when a request omits it.
	DefaultSize = 50
	// MaxSize caps the page size of any listing.
	MaxSize = 200
)

// Normalize applies defaults and the upper bound to a 1-based page request.
func Normalize(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return page, size
}

// Offset returns the number of rows to skip for a normalized page.
func Offset(page, size int) int {
	return (page - 1) * size
}

// Window returns the [start, end) bounds of the page within a result set of total rows.
func Window(page, size, total int) (int, int) {
	start := Offset(page, size)
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}
