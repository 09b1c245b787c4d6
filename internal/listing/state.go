package listing

import "toolnest/internal/models"

// State is a browsing session over a tool collection. Changing the query,
// category or sort mode sends the viewer back to page 1.
type State struct {
	Query    string
	Category string
	Sort     SortMode
	Page     int
	PageSize int
}

// NewState starts at page 1 of the newest tools across all categories.
func NewState() State {
	return State{Category: AllCategories, Sort: SortNewest, Page: 1, PageSize: DefaultPageSize}
}

func (s *State) SetQuery(q string) {
	s.Query = q
	s.Page = 1
}

func (s *State) SetCategory(label string) {
	s.Category = label
	s.Page = 1
}

func (s *State) SetSort(mode SortMode) {
	s.Sort = mode
	s.Page = 1
}

// SetPage moves to page; values below 1 mean page 1.
func (s *State) SetPage(page int) {
	s.Page = max(1, page)
}

// Result is one rendered page of a listing.
type Result struct {
	Items      []models.ToolResponse `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalItems int                   `json:"total_items"`
	TotalPages int                   `json:"total_pages"`
	Pages      []PageLink            `json:"pages"`
}

// Apply filters, sorts and paginates tools. The same input and state always give the same result.
func (s State) Apply(tools []models.ToolResponse) Result {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := max(1, s.Page)

	filtered := FilterByText(tools, s.Query)
	filtered = FilterByCategory(filtered, s.Category)
	sorted := Sort(filtered, s.Sort)
	total := TotalPages(len(sorted), size)
	// Anything past the end renders as the first empty page.
	page = min(page, total+1)

	return Result{
		Items:      Paginate(sorted, page, size),
		Page:       page,
		PageSize:   size,
		TotalItems: len(sorted),
		TotalPages: total,
		Pages:      PageNumbers(page, total),
	}
}
