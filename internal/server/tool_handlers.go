package server

import (
	"toolnest/internal/listing"
	"toolnest/internal/models"
	"toolnest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type toolRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	URL         string                  `json:"url"`
	Category    models.CategorySelector `json:"category"`
}

// ListTools handles GET /api/tools?category=all|uncategorized|<id>
// @Summary List tools
// @Description The caller's tools newest first, optionally filtered by category
// @Tags tools
// @Security BearerAuth
// @Produce json
// @Param category query string false "all, uncategorized or a category ID"
// @Success 200 {array} models.ToolResponse
// @Router /tools [get]
func (s *Server) ListTools(c *fiber.Ctx) error {
	tools, err := s.toolService.List(c.UserContext(), currentUserID(c), c.Query("category"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.NewToolResponses(tools))
}

// BrowseTools handles GET /api/tools/browse
// @Summary Browse tools
// @Description Text search, category filter, sort and fixed-size pages over the caller's tools
// @Tags tools
// @Security BearerAuth
// @Produce json
// @Param q query string false "Case-insensitive text in title or description"
// @Param category query string false "Category name, all or uncategorized"
// @Param sort query string false "newest or popular"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} listing.Result
// @Router /tools/browse [get]
func (s *Server) BrowseTools(c *fiber.Ctx) error {
	state := listing.NewState()
	state.SetQuery(c.Query("q"))
	if category := c.Query("category"); category != "" {
		state.SetCategory(category)
	}
	state.SetSort(listing.ParseSortMode(c.Query("sort")))
	state.SetPage(c.QueryInt("page", 1))

	result, err := s.toolService.Browse(c.UserContext(), currentUserID(c), state)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(result)
}

// CreateTool handles POST /api/tools
// @Summary Create tool
// @Tags tools
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body toolRequest true "Tool"
// @Success 201 {object} models.ToolResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tools [post]
func (s *Server) CreateTool(c *fiber.Ctx) error {
	var req toolRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	tool, err := s.toolService.Create(c.UserContext(), service.CreateToolInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Category:    req.Category,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewToolResponse(tool))
}

// GetTool handles GET /api/tools/:id
// @Summary Get tool
// @Tags tools
// @Security BearerAuth
// @Produce json
// @Param id path int true "Tool ID"
// @Success 200 {object} models.ToolResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tools/{id} [get]
func (s *Server) GetTool(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tool, err := s.toolService.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.NewToolResponse(tool))
}

// UpdateTool handles PUT /api/tools/:id
// @Summary Update tool
// @Tags tools
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Tool ID"
// @Param request body toolRequest true "Tool"
// @Success 200 {object} models.ToolResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tools/{id} [put]
func (s *Server) UpdateTool(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req toolRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	tool, err := s.toolService.Update(c.UserContext(), service.UpdateToolInput{
		UserID:      currentUserID(c),
		ToolID:      id,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Category:    req.Category,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(models.NewToolResponse(tool))
}

// DeleteTool handles DELETE /api/tools/:id
// @Summary Delete tool
// @Tags tools
// @Security BearerAuth
// @Param id path int true "Tool ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /tools/{id} [delete]
func (s *Server) DeleteTool(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.toolService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleFavorite handles POST /api/tools/:id/favorite
// @Summary Toggle favorite
// @Description Favorite or unfavorite any tool, including tools owned by others
// @Tags tools
// @Security BearerAuth
// @Produce json
// @Param id path int true "Tool ID"
// @Success 200 {object} models.FavoriteStatus
// @Failure 404 {object} models.ErrorResponse
// @Router /tools/{id}/favorite [post]
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	status, err := s.toolService.ToggleFavorite(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(status)
}

// GetFavoriteStatus handles GET /api/tools/:id/favorite
// @Summary Favorite status
// @Tags tools
// @Security BearerAuth
// @Produce json
// @Param id path int true "Tool ID"
// @Success 200 {object} models.FavoriteStatus
// @Failure 404 {object} models.ErrorResponse
// @Router /tools/{id}/favorite [get]
func (s *Server) GetFavoriteStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	status, err := s.toolService.FavoriteStatus(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(status)
}
