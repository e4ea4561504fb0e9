package arena

// PagedArena chains fixed-size bump arenas ("pages") so it can grow
// without relocating memory already handed out. Allocation goes to the
// current page; when that page is exhausted a fresh page is opened and
// the request retried once. A request larger than one page always
// fails, it is never split across pages.
type PagedArena struct {
	pageBytes int
	pages     []*Arena
}

// Stats is a point-in-time snapshot of a PagedArena, consumed by the
// memmetrics collectors.
type Stats struct {
	Pages         int
	PageBytes     int
	UsedBytes     int
	CapacityBytes int
}

// NewPaged creates a PagedArena with the given page capacity in bytes
// (non-positive selects DefaultCapacity). The first page is created
// immediately and survives every Reset.
func NewPaged(pageBytes int) *PagedArena {
	if pageBytes <= 0 {
		pageBytes = DefaultCapacity
	}
	return &PagedArena{
		pageBytes: pageBytes,
		pages:     []*Arena{New(pageBytes)},
	}
}

// Alloc reserves size bytes aligned to align from the current page,
// opening a new page and retrying once if the current page cannot fit
// the request. Oversized requests (size > PageBytes) are rejected
// outright with ErrAllocationFailed.
func (p *PagedArena) Alloc(size, align int) ([]byte, error) {
	if size < 0 || size > p.pageBytes {
		return nil, ErrAllocationFailed
	}
	b, err := p.pages[len(p.pages)-1].Alloc(size, align)
	if err == nil {
		return b, nil
	}
	p.pages = append(p.pages, New(p.pageBytes))
	b, err = p.pages[len(p.pages)-1].Alloc(size, align)
	if err != nil {
		// Alignment padding can sink a full-page request even on a
		// fresh page. Don't keep the page we opened for it.
		p.pages = p.pages[:len(p.pages)-1]
		return nil, err
	}
	return b, nil
}

// Reset drops every page except the first, regardless of how much free
// space they still had, and resets the first page. It always succeeds.
// The caller must ensure no references into the dropped pages remain.
func (p *PagedArena) Reset() {
	p.pages = p.pages[:1]
	p.pages[0].Reset()
}

// Pages returns the number of pages currently chained.
func (p *PagedArena) Pages() int { return len(p.pages) }

// PageBytes returns the fixed per-page byte capacity.
func (p *PagedArena) PageBytes() int { return p.pageBytes }

// Stats returns a snapshot of page count and byte usage.
func (p *PagedArena) Stats() Stats {
	used := 0
	for _, pg := range p.pages {
		used += pg.Used()
	}
	return Stats{
		Pages:         len(p.pages),
		PageBytes:     p.pageBytes,
		UsedBytes:     used,
		CapacityBytes: len(p.pages) * p.pageBytes,
	}
}
