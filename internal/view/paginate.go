package view

// TotalPages returns how many pages a collection spans. Zero items is
// zero pages.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage forces a 1-based page number into [1, totalPages]. A shrunken
// collection therefore pulls an out-of-range page back to the last valid
// one.
func ClampPage(page, total, size int) int {
	tp := TotalPages(total, size)
	if tp == 0 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > tp {
		return tp
	}
	return page
}

// Page returns the contiguous slice for a 1-based page number, clamping
// the page into range first.
func Page[T any](data []T, page, size int) []T {
	if size <= 0 {
		return nil
	}
	page = ClampPage(page, len(data), size)
	start := (page - 1) * size
	if start >= len(data) {
		return nil
	}
	end := start + size
	if end > len(data) {
		end = len(data)
	}
	return data[start:end]
}

// Pager carries the page state the report views keep between requests:
// changing the page clamps it, changing the size resets to page one.
type Pager struct {
	page int
	size int
}

func NewPager(size int) *Pager {
	if size <= 0 {
		size = 10
	}
	return &Pager{page: 1, size: size}
}

func (p *Pager) Page() int { return p.page }
func (p *Pager) Size() int { return p.size }

// SetPage moves to a page, clamped against the current collection length.
func (p *Pager) SetPage(page, total int) {
	p.page = ClampPage(page, total, p.size)
}

// SetSize changes the page size and resets to the first page.
func (p *Pager) SetSize(size int) {
	if size <= 0 {
		return
	}
	p.size = size
	p.page = 1
}
