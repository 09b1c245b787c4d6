package listing

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"toolnest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func titles(tools []models.ToolResponse) []string {
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.Title)
	}
	return out
}

func alphaBeta() []models.ToolResponse {
	return []models.ToolResponse{
		{Title: "Alpha", Description: "x", FavoritesCount: 2, CreatedAt: t0},
		{Title: "Beta", Description: "y", FavoritesCount: 5, CreatedAt: t0.Add(time.Hour)},
	}
}

func TestSort(t *testing.T) {
	t.Parallel()
	tools := alphaBeta()

	assert.Equal(t, []string{"Beta", "Alpha"}, titles(Sort(tools, SortPopular)))
	assert.Equal(t, []string{"Beta", "Alpha"}, titles(Sort(tools, SortNewest)))
	assert.Equal(t, []string{"Alpha", "Beta"}, titles(tools), "input must not be reordered")
}

func TestSort_PopularIsStable(t *testing.T) {
	t.Parallel()
	tools := []models.ToolResponse{
		{Title: "a", FavoritesCount: 1},
		{Title: "b", FavoritesCount: 3},
		{Title: "c", FavoritesCount: 1},
		{Title: "d", FavoritesCount: 3},
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, titles(Sort(tools, SortPopular)))
}

func TestParseSortMode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, SortPopular, ParseSortMode(" Popular "))
	assert.Equal(t, SortNewest, ParseSortMode("newest"))
	assert.Equal(t, SortNewest, ParseSortMode(""))
	assert.Equal(t, SortNewest, ParseSortMode("oldest"))
}

func TestFilterByText(t *testing.T) {
	t.Parallel()
	tools := alphaBeta()

	assert.Equal(t, []string{"Alpha"}, titles(FilterByText(tools, "alp")))
	assert.Equal(t, []string{"Alpha"}, titles(FilterByText(tools, "  ALP ")))
	assert.Equal(t, []string{"Beta"}, titles(FilterByText(tools, "y")))
	assert.Equal(t, []string{"Alpha", "Beta"}, titles(FilterByText(tools, "   ")))
	assert.Empty(t, FilterByText(tools, "zzz"))
}

func TestFilterByCategory(t *testing.T) {
	t.Parallel()
	tools := []models.ToolResponse{
		{Title: "hammer", Category: &models.CategorySummary{ID: 1, Name: "Hardware"}},
		{Title: "vim", Category: &models.CategorySummary{ID: 2, Name: "Editors"}},
		{Title: "loose"},
	}

	tests := []struct {
		label string
		want  []string
	}{
		{"", []string{"hammer", "vim", "loose"}},
		{"all", []string{"hammer", "vim", "loose"}},
		{"Editors", []string{"vim"}},
		{"uncategorized", []string{"loose"}},
		{"Missing", []string{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("label %q", tt.label), func(t *testing.T) {
			assert.Equal(t, tt.want, titles(FilterByCategory(tools, tt.label)))
		})
	}
}

func makeTools(n int) []models.ToolResponse {
	tools := make([]models.ToolResponse, n)
	for i := range tools {
		tools[i] = models.ToolResponse{Title: fmt.Sprintf("tool-%02d", i), CreatedAt: t0.Add(time.Duration(-i) * time.Minute)}
	}
	return tools
}

func TestPaginate(t *testing.T) {
	t.Parallel()
	tools := makeTools(20)

	assert.Len(t, Paginate(tools, 1, DefaultPageSize), 9)
	assert.Len(t, Paginate(tools, 2, DefaultPageSize), 9)
	assert.Len(t, Paginate(tools, 3, DefaultPageSize), 2)
	assert.Empty(t, Paginate(tools, 4, DefaultPageSize))
	assert.Empty(t, Paginate(tools, 1024819115206086202, DefaultPageSize))
	assert.Empty(t, Paginate(tools, math.MaxInt, DefaultPageSize))
	assert.Empty(t, Paginate(nil, math.MaxInt, DefaultPageSize))
	assert.Equal(t, titles(Paginate(tools, 1, DefaultPageSize)), titles(Paginate(tools, 0, DefaultPageSize)))
	assert.Equal(t, 3, TotalPages(20, DefaultPageSize))
	assert.Equal(t, 0, TotalPages(0, DefaultPageSize))
}

func pageString(links []PageLink) string {
	b, _ := json.Marshal(links)
	return string(b)
}

func TestPageNumbers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		current, total int
		want           string
	}{
		{1, 0, `[]`},
		{1, 1, `[1]`},
		{2, 5, `[1,2,3,4,5]`},
		{1, 10, `[1,2,3,4,5,"...",10]`},
		{5, 10, `[1,"...",3,4,5,6,7,"...",10]`},
		{4, 10, `[1,2,3,4,5,6,"...",10]`},
		{10, 10, `[1,"...",6,7,8,9,10]`},
		{8, 10, `[1,"...",6,7,8,9,10]`},
		{7, 10, `[1,"...",5,6,7,8,9,10]`},
		{3, 6, `[1,2,3,4,5,6]`},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.current, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, pageString(PageNumbers(tt.current, tt.total)))
		})
	}
}

func TestState_ChangesResetPage(t *testing.T) {
	t.Parallel()
	s := NewState()

	s.SetPage(3)
	s.SetQuery("vim")
	assert.Equal(t, 1, s.Page)

	s.SetPage(3)
	s.SetCategory("Editors")
	assert.Equal(t, 1, s.Page)

	s.SetPage(3)
	s.SetSort(SortPopular)
	assert.Equal(t, 1, s.Page)

	s.SetPage(-4)
	assert.Equal(t, 1, s.Page)
}

func TestState_Apply(t *testing.T) {
	t.Parallel()
	tools := makeTools(20)

	s := NewState()
	s.SetPage(3)
	res := s.Apply(tools)
	assert.Equal(t, 20, res.TotalItems)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, []string{"tool-18", "tool-19"}, titles(res.Items))
	assert.Equal(t, `[1,2,3]`, pageString(res.Pages))

	s.SetPage(4)
	assert.Empty(t, s.Apply(tools).Items)

	s.SetPage(math.MaxInt)
	res = s.Apply(tools)
	assert.Empty(t, res.Items)
	assert.Equal(t, 4, res.Page)
	assert.Equal(t, `[1,2,3]`, pageString(res.Pages))

	s.SetQuery("tool-1")
	res = s.Apply(tools)
	require.Equal(t, 10, res.TotalItems)
	assert.Equal(t, "tool-10", res.Items[0].Title)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, res, s.Apply(tools))
}
