// Package listing composes a fetched tool collection for display: text search,
// category filter, sort order and fixed-size pages. Everything here is pure.
package listing

import (
	"cmp"
	"slices"
	"strings"

	"toolnest/internal/models"
)

// DefaultPageSize is the page size of the full tool listing.
const DefaultPageSize = 9

// AllCategories disables the category filter.
const AllCategories = "all"

// SortMode orders a listing.
type SortMode string

const (
	SortNewest  SortMode = "newest"
	SortPopular SortMode = "popular"
)

// ParseSortMode falls back to newest for anything unknown.
func ParseSortMode(s string) SortMode {
	if SortMode(strings.ToLower(strings.TrimSpace(s))) == SortPopular {
		return SortPopular
	}
	return SortNewest
}

// FilterByText keeps tools whose title or description contains query, ignoring case.
func FilterByText(tools []models.ToolResponse, query string) []models.ToolResponse {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tools
	}
	out := make([]models.ToolResponse, 0, len(tools))
	for _, t := range tools {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// CategoryLabel is the name a tool is filed under, or "" when uncategorized.
func CategoryLabel(t models.ToolResponse) string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Name
}

// FilterByCategory keeps tools filed under label. "" and "all" keep everything;
// "uncategorized" keeps tools without a category.
func FilterByCategory(tools []models.ToolResponse, label string) []models.ToolResponse {
	label = strings.TrimSpace(label)
	if label == "" || label == AllCategories {
		return tools
	}
	if label == models.UncategorizedValue {
		label = ""
	}
	out := make([]models.ToolResponse, 0, len(tools))
	for _, t := range tools {
		if CategoryLabel(t) == label {
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a sorted copy. Both modes are stable.
func Sort(tools []models.ToolResponse, mode SortMode) []models.ToolResponse {
	out := slices.Clone(tools)
	switch mode {
	case SortPopular:
		slices.SortStableFunc(out, func(a, b models.ToolResponse) int {
			return cmp.Compare(b.FavoritesCount, a.FavoritesCount)
		})
	default:
		slices.SortStableFunc(out, func(a, b models.ToolResponse) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}

// TotalPages is the number of pages needed for n items.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-based page. Pages below 1 are treated as 1 and pages
// past the end are empty.
func Paginate(tools []models.ToolResponse, page, size int) []models.ToolResponse {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	// Compare page counts before multiplying so huge pages cannot overflow.
	if page-1 >= TotalPages(len(tools), size) {
		return []models.ToolResponse{}
	}
	start := (page - 1) * size
	end := min(start+size, len(tools))
	return tools[start:end]
}
