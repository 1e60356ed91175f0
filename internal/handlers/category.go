package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kutuphane/apiserver/internal/services"
	"github.com/kutuphane/apiserver/internal/store"
	"github.com/kutuphane/apiserver/types"
)

// CategoryHandler provides HTTP handlers for categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler constructs a handler with the provided service.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRouter registers the public category routes.
func CategoryRouter(r chi.Router, categoryService *services.CategoryService) {
	handler := NewCategoryHandler(categoryService)

	r.Get("/", handler.ListCategories)
}

// AdminCategoryRouter registers the admin category management routes.
func AdminCategoryRouter(r chi.Router, categoryService *services.CategoryService) {
	handler := NewCategoryHandler(categoryService)

	r.Post("/", handler.CreateCategory)
	r.Delete("/{categoryID}", handler.DeleteCategory)
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	writeJSON(w, http.StatusOK, CategoryListResponse{Items: categories, Total: len(categories)})
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	category, err := h.categoryService.Create(r.Context(), types.Category{Name: req.Name})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "category already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryInUse):
			writeError(w, http.StatusBadRequest, "category has books; delete or move them first")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "category not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete category")
		}
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}

// CategoryRequest is the create payload for a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryListResponse is the list response payload.
type CategoryListResponse struct {
	Items []types.Category `json:"items"`
	Total int              `json:"total"`
}
