package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"toolnest/internal/listing"
	"toolnest/internal/middleware"
	"toolnest/internal/models"
	"toolnest/internal/observability"
	"toolnest/internal/repository"
	"toolnest/internal/validation"
)

// ToolFavorited describes a favorite added by someone other than the tool's owner.
type ToolFavorited struct {
	ToolID         uint `json:"tool_id"`
	ByUserID       uint `json:"by_user_id"`
	FavoritesCount int  `json:"favorites_count"`
}

// FavoriteEvents receives favorite notifications for tool owners. Delivery is best effort.
type FavoriteEvents interface {
	ToolFavorited(ctx context.Context, ownerID uint, event ToolFavorited) error
}

type ToolService struct {
	toolRepo     repository.ToolRepository
	categoryRepo repository.CategoryRepository
	events       FavoriteEvents
}

type CreateToolInput struct {
	UserID      uint
	Title       string
	Description string
	URL         string
	Category    models.CategorySelector
}

type UpdateToolInput struct {
	UserID      uint
	ToolID      uint
	Title       string
	Description string
	URL         string
	Category    models.CategorySelector
}

type toolFields struct {
	title       string
	description string
	url         string
}

// NewToolService wires the tool rules. events may be nil.
func NewToolService(
	toolRepo repository.ToolRepository,
	categoryRepo repository.CategoryRepository,
	events FavoriteEvents,
) *ToolService {
	return &ToolService{
		toolRepo:     toolRepo,
		categoryRepo: categoryRepo,
		events:       events,
	}
}

func validateToolFields(title, description, url string) (toolFields, error) {
	var f toolFields
	var err error
	if f.title, err = requiredText(title, "Title", models.ToolTitleMaxLength); err != nil {
		return f, err
	}
	if f.description, err = requiredText(description, "Description", models.ToolDescriptionMaxLength); err != nil {
		return f, err
	}
	if f.url, err = requiredText(url, "URL", models.ToolURLMaxLength); err != nil {
		return f, err
	}
	if !validation.IsHTTPURL(f.url) {
		return f, models.NewValidationError("URL must start with http:// or https://")
	}
	return f, nil
}

// resolveCategory returns nil for "no category" and NotFound for anything the caller does not own.
func (s *ToolService) resolveCategory(ctx context.Context, userID uint, sel models.CategorySelector) (*models.Category, error) {
	if !sel.IsSet() {
		return nil, nil
	}
	if sel.Invalid {
		return nil, models.NewNotFoundError("Category", sel.Raw)
	}
	category, err := s.categoryRepo.GetOwned(ctx, sel.ID, userID)
	if err != nil {
		return nil, serviceError(err)
	}
	return category, nil
}

func categoryRef(category *models.Category) *uint {
	if category == nil {
		return nil
	}
	id := category.ID
	return &id
}

// parseToolFilter understands "", "all", "uncategorized" and numeric ids.
// ok is false for anything else, which matches no tools.
func parseToolFilter(raw string) (filter repository.ToolFilter, ok bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "" || strings.EqualFold(raw, listing.AllCategories):
		return repository.ToolFilter{}, true
	case strings.EqualFold(raw, models.UncategorizedValue):
		return repository.ToolFilter{Uncategorized: true}, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return repository.ToolFilter{}, false
	}
	return repository.ToolFilter{CategoryID: uint(id)}, true
}

// List returns the caller's tools newest first.
func (s *ToolService) List(ctx context.Context, userID uint, categoryFilter string) ([]*models.Tool, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	filter, ok := parseToolFilter(categoryFilter)
	if !ok {
		return []*models.Tool{}, nil
	}
	tools, err := s.toolRepo.ListByOwner(ctx, userID, filter)
	if err != nil {
		return nil, serviceError(err)
	}
	return tools, nil
}

// Browse lists every tool of the caller and composes one page for display.
func (s *ToolService) Browse(ctx context.Context, userID uint, state listing.State) (listing.Result, error) {
	tools, err := s.List(ctx, userID, listing.AllCategories)
	if err != nil {
		return listing.Result{}, err
	}
	return state.Apply(models.NewToolResponses(tools)), nil
}

func (s *ToolService) Get(ctx context.Context, userID, toolID uint) (*models.Tool, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	tool, err := s.toolRepo.GetOwned(ctx, toolID, userID)
	if err != nil {
		return nil, serviceError(err)
	}
	return tool, nil
}

func (s *ToolService) Create(ctx context.Context, in CreateToolInput) (*models.Tool, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	fields, err := validateToolFields(in.Title, in.Description, in.URL)
	if err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, in.UserID, in.Category)
	if err != nil {
		return nil, err
	}

	tool := &models.Tool{
		Title:       fields.title,
		Description: fields.description,
		URL:         fields.url,
		CategoryID:  categoryRef(category),
		UserID:      in.UserID,
	}
	if err := s.toolRepo.Create(ctx, tool); err != nil {
		return nil, serviceError(err)
	}
	tool.Category = category
	return tool, nil
}

// Update replaces the editable fields. An omitted category clears it.
func (s *ToolService) Update(ctx context.Context, in UpdateToolInput) (*models.Tool, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	fields, err := validateToolFields(in.Title, in.Description, in.URL)
	if err != nil {
		return nil, err
	}

	tool, err := s.toolRepo.GetOwned(ctx, in.ToolID, in.UserID)
	if err != nil {
		return nil, serviceError(err)
	}
	category, err := s.resolveCategory(ctx, in.UserID, in.Category)
	if err != nil {
		return nil, err
	}

	tool.Title = fields.title
	tool.Description = fields.description
	tool.URL = fields.url
	tool.CategoryID = categoryRef(category)
	tool.Category = category
	if err := s.toolRepo.Update(ctx, tool); err != nil {
		return nil, serviceError(err)
	}
	return tool, nil
}

func (s *ToolService) Delete(ctx context.Context, userID, toolID uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return serviceError(s.toolRepo.Delete(ctx, toolID, userID))
}

// ToggleFavorite flips the caller's favorite on any tool and tells the owner about new favorites.
func (s *ToolService) ToggleFavorite(ctx context.Context, userID, toolID uint) (*models.FavoriteStatus, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	result, err := s.toolRepo.ToggleFavorite(ctx, toolID, userID)
	if err != nil {
		return nil, serviceError(err)
	}

	action := "removed"
	if result.Status.IsFavorited {
		action = "added"
	}
	observability.FavoriteToggles.WithLabelValues(action).Inc()

	if result.Status.IsFavorited && result.OwnerID != userID && s.events != nil {
		event := ToolFavorited{
			ToolID:         toolID,
			ByUserID:       userID,
			FavoritesCount: result.Status.FavoritesCount,
		}
		if err := s.events.ToolFavorited(ctx, result.OwnerID, event); err != nil {
			middleware.Logger.WarnContext(ctx, "favorite notification failed",
				slog.Uint64("tool_id", uint64(toolID)),
				slog.String("error", err.Error()))
		}
	}

	status := result.Status
	return &status, nil
}

func (s *ToolService) FavoriteStatus(ctx context.Context, userID, toolID uint) (*models.FavoriteStatus, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	status, err := s.toolRepo.FavoriteStatus(ctx, toolID, userID)
	if err != nil {
		return nil, serviceError(err)
	}
	return status, nil
}
