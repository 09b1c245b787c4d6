package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type categoryBody struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ToolCount int64  `json:"tool_count"`
}

func createCategory(t *testing.T, app *fiber.App, token, name string) categoryBody {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/categories", token, fiber.Map{"name": name})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var category categoryBody
	decodeBody(t, resp, &category)
	return category
}

func TestCreateCategory(t *testing.T) {
	_, app := newTestApp(t, nil)
	token, _ := registerAndLogin(t, app, "Ada", "ada@example.com")

	category := createCategory(t, app, token, "  Editors  ")
	assert.NotZero(t, category.ID)
	assert.Equal(t, "Editors", category.Name)

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"Duplicate", "Editors", "Category already exists"},
		{"Empty", "   ", "Category name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/api/categories", token, fiber.Map{"name": tt.input})
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			var body errorBody
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestCreateCategory_SameNameForDifferentOwners(t *testing.T) {
	_, app := newTestApp(t, nil)
	ada, _ := registerAndLogin(t, app, "Ada", "ada@example.com")
	bob, _ := registerAndLogin(t, app, "Bob", "bob@example.com")

	createCategory(t, app, ada, "Editors")
	createCategory(t, app, bob, "Editors")
}

func TestListCategories(t *testing.T) {
	_, app := newTestApp(t, nil)
	token, _ := registerAndLogin(t, app, "Ada", "ada@example.com")

	zeta := createCategory(t, app, token, "Zeta")
	createCategory(t, app, token, "Alpha")
	resp := doRequest(t, app, http.MethodPost, "/api/tools", token, fiber.Map{
		"title": "Vim", "description": "Editor", "url": "https://vim.org", "category": zeta.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/categories/options", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var byName []categoryBody
	decodeBody(t, resp, &byName)
	require.Len(t, byName, 2)
	assert.Equal(t, "Alpha", byName[0].Name)
	assert.Equal(t, "Zeta", byName[1].Name)
	assert.Equal(t, int64(1), byName[1].ToolCount)

	resp = doRequest(t, app, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var newest []categoryBody
	decodeBody(t, resp, &newest)
	require.Len(t, newest, 2)
	assert.Equal(t, "Alpha", newest[0].Name)
	assert.Equal(t, int64(0), newest[0].ToolCount)
}

func TestRenameCategory(t *testing.T) {
	_, app := newTestApp(t, nil)
	ada, _ := registerAndLogin(t, app, "Ada", "ada@example.com")
	bob, _ := registerAndLogin(t, app, "Bob", "bob@example.com")
	category := createCategory(t, app, ada, "Editors")
	path := fmt.Sprintf("/api/categories/%d", category.ID)

	resp := doRequest(t, app, http.MethodPut, path, ada, fiber.Map{"name": "IDEs"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var renamed categoryBody
	decodeBody(t, resp, &renamed)
	assert.Equal(t, "IDEs", renamed.Name)

	resp = doRequest(t, app, http.MethodPut, path, ada, fiber.Map{"name": ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, path, bob, fiber.Map{"name": "Mine"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/api/categories/abc", ada, fiber.Map{"name": "X"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body errorBody
	decodeBody(t, resp, &body)
	assert.Equal(t, "Invalid ID", body.Error)
}

func TestDeleteCategory_LeavesToolsUncategorized(t *testing.T) {
	_, app := newTestApp(t, nil)
	token, _ := registerAndLogin(t, app, "Ada", "ada@example.com")
	category := createCategory(t, app, token, "Editors")

	resp := doRequest(t, app, http.MethodPost, "/api/tools", token, fiber.Map{
		"title": "Vim", "description": "Editor", "url": "https://vim.org", "category": category.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var tool toolBody
	decodeBody(t, resp, &tool)

	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Category deleted successfully", body["message"])

	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/tools/%d", tool.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var after toolBody
	decodeBody(t, resp, &after)
	assert.Nil(t, after.Category)

	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
