package listing

import (
	"encoding/json"
	"strconv"
)

const maxVisiblePages = 5

// PageLink is one entry of a pager: a page number or a gap marker.
type PageLink struct {
	Number   int
	Ellipsis bool
}

// MarshalJSON renders a page as its number and a gap as "...".
func (p PageLink) MarshalJSON() ([]byte, error) {
	if p.Ellipsis {
		return json.Marshal("...")
	}
	return []byte(strconv.Itoa(p.Number)), nil
}

// PageNumbers renders the pager for current out of total pages: up to five
// consecutive pages around current, with the first and last page always present
// and gaps collapsed to an ellipsis.
func PageNumbers(current, total int) []PageLink {
	if total <= 0 {
		return []PageLink{}
	}

	start := max(1, current-2)
	end := min(total, start+maxVisiblePages-1)
	if end-start < maxVisiblePages-1 {
		start = max(1, end-maxVisiblePages+1)
	}

	links := make([]PageLink, 0, maxVisiblePages+4)
	if start > 1 {
		links = append(links, PageLink{Number: 1})
		if start > 2 {
			links = append(links, PageLink{Ellipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		links = append(links, PageLink{Number: i})
	}
	if end < total {
		if end < total-1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Number: total})
	}
	return links
}
