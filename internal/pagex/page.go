// Package pagex implements offset/limit slicing and the windowed
// page-descriptor math used for listings.
package pagex

// PageDescriptor describes one page of a listing plus the window of pages
// adjacent to it. PrevPage and NextPage are nil at the respective boundary.
type PageDescriptor struct {
	Total             int  `json:"total"`
	CurrentPage       int  `json:"currentPage"`
	PrevPage          *int `json:"prevPage"`
	NextPage          *int `json:"nextPage"`
	LastPage          int  `json:"lastPage"`
	FirstAdjacentPage int  `json:"firstAdjacentPage"`
	LastAdjacentPage  int  `json:"lastAdjacentPage"`
}

// Bounds clips an offset/limit pair against a collection of n items and
// returns the half-open slice range [lo, hi). A limit of zero means
// "everything after offset".
func Bounds(n, offset, limit int) (lo, hi int) {
	if offset < 0 {
		offset = 0
	}

	lo = offset
	if lo > n {
		lo = n
	}

	hi = n
	if limit > 0 && lo+limit < n {
		hi = lo + limit
	}

	return lo, hi
}

// Window computes the page descriptor for currentPage out of total items at
// perPage items per page. span is the half-width of the adjacent-page window
// around the current page.
func Window(total, perPage, currentPage, span int) PageDescriptor {
	if currentPage < 1 {
		currentPage = 1
	}

	lastPage := 0
	if perPage > 0 {
		lastPage = (total + perPage - 1) / perPage
	}

	d := PageDescriptor{
		Total:       total,
		CurrentPage: currentPage,
		LastPage:    lastPage,
	}

	if currentPage > 1 {
		p := currentPage - 1
		d.PrevPage = &p
	}
	if lastPage > currentPage {
		n := currentPage + 1
		d.NextPage = &n
	}

	switch {
	case currentPage <= 2*span:
		d.FirstAdjacentPage = 1
		d.LastAdjacentPage = min(1+2*span, lastPage)
	case currentPage > lastPage-2*span:
		d.FirstAdjacentPage = lastPage - 2*span
		d.LastAdjacentPage = lastPage
	default:
		d.FirstAdjacentPage = currentPage - span
		d.LastAdjacentPage = currentPage + span
	}

	return d
}
