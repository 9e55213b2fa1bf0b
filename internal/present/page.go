package present

import (
	"net/url"
	"strconv"

	"voterroll/internal/domain"
)

// DefaultPageSize is the number of voters per list page
const DefaultPageSize = 100

// ParamPage is the query parameter carrying the 1-based page number
const ParamPage = "page"

// Page is one window of a filtered voter sequence
type Page struct {
	Number     int            `json:"page"`
	Size       int            `json:"page_size"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
	Items      []domain.Voter `json:"items"`
}

// Paginate returns page number (1-based) of voters. Out-of-range numbers are
// clamped to the first or last page; a non-positive size uses DefaultPageSize.
func Paginate(voters []domain.Voter, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := (len(voters) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * size
	end := start + size
	if end > len(voters) {
		end = len(voters)
	}

	return Page{
		Number:     number,
		Size:       size,
		TotalItems: len(voters),
		TotalPages: totalPages,
		Items:      voters[start:end],
	}
}

// HasPrev reports whether a previous page exists
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// First returns the 1-based position of the first item on the page
func (p Page) First() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Number-1)*p.Size + 1
}

// Last returns the 1-based position of the last item on the page, or 0 for
// an empty page
func (p Page) Last() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.First() + len(p.Items) - 1
}

// ParsePageNumber reads the page parameter; anything invalid means page 1
func ParsePageNumber(values url.Values) int {
	n, err := strconv.Atoi(values.Get(ParamPage))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// PageQuery encodes filter and page number as a query string, so page links
// keep the active filter.
func PageQuery(filter domain.FilterSpec, number int) string {
	values := filter.Values()
	if number > 1 {
		values.Set(ParamPage, strconv.Itoa(number))
	}
	return values.Encode()
}
