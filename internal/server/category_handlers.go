package server

import (
	"toolnest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// ListCategories handles GET /api/categories
// @Summary List categories
// @Description The caller's categories with tool counts, newest first
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListWithCounts(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(categories)
}

// ListCategoryOptions handles GET /api/categories/options
// @Summary List categories by name
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories/options [get]
func (s *Server) ListCategoryOptions(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListForDisplay(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(categories)
}

// CreateCategory handles POST /api/categories
// @Summary Create category
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body categoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Router /categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	category, err := s.categoryService.Create(c.UserContext(), service.CreateCategoryInput{
		UserID: currentUserID(c),
		Name:   req.Name,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// RenameCategory handles PUT /api/categories/:id
// @Summary Rename category
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body categoryRequest true "Category"
// @Success 200 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id} [put]
func (s *Server) RenameCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req categoryRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	category, err := s.categoryService.Rename(c.UserContext(), service.RenameCategoryInput{
		UserID:     currentUserID(c),
		CategoryID: id,
		Name:       req.Name,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:id. Its tools become uncategorized.
// @Summary Delete category
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id} [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
