package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kutuphane/apiserver/internal/services"
	"github.com/kutuphane/apiserver/internal/store"
	"github.com/kutuphane/apiserver/types"
)

// BookHandler provides HTTP handlers for the book catalog.
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler constructs a handler with the provided service.
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// BookRouter registers the public book-browsing routes.
func BookRouter(r chi.Router, bookService *services.BookService) {
	handler := NewBookHandler(bookService)

	r.Get("/", handler.ListBooks)
	r.Get("/{bookID}", handler.GetBook)
}

// AdminBookRouter registers the admin book management routes. The
// caller is responsible for mounting it behind auth + admin middleware.
func AdminBookRouter(r chi.Router, bookService *services.BookService) {
	handler := NewBookHandler(bookService)

	r.Post("/", handler.CreateBook)
	r.Put("/{bookID}", handler.UpdateBook)
	r.Delete("/{bookID}", handler.DeleteBook)
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	categoryID := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		categoryID = parsed
	}

	books, err := h.bookService.List(r.Context(), categoryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list books")
		return
	}

	writeJSON(w, http.StatusOK, BookListResponse{Items: books, Total: len(books)})
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "bookID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	book, err := h.bookService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch book")
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	adminID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	req, err := decodeBookRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The creator is always the session admin, never client input.
	book, err := h.bookService.Create(r.Context(), types.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		CreatedByID: adminID,
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidRef) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create book")
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "bookID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	req, err := decodeBookRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.bookService.Update(r.Context(), types.Book{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "book not found")
		case errors.Is(err, store.ErrInvalidRef):
			writeError(w, http.StatusNotFound, "category not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update book")
		}
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "bookID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}

	if err := h.bookService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete book")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Book deleted successfully"})
}

// BookRequest is the create/update payload for a book.
type BookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description *string `json:"description"`
	CategoryID  int     `json:"category_id"`
}

// BookListResponse is the list response payload.
type BookListResponse struct {
	Items []types.Book `json:"items"`
	Total int          `json:"total"`
}

func decodeBookRequest(r *http.Request) (BookRequest, error) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BookRequest{}, errors.New("invalid request")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if req.Title == "" || req.Author == "" || req.CategoryID < 1 {
		return BookRequest{}, errors.New("title, author, and category are required")
	}
	return req, nil
}
