package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kutuphane/apiserver/internal/services"
	"github.com/kutuphane/apiserver/types"
)

// StatsHandler serves the admin dashboard counters.
type StatsHandler struct {
	userService     *services.UserService
	bookService     *services.BookService
	categoryService *services.CategoryService
	messageService  *services.MessageService
}

// AdminStatsRouter registers the stats route.
func AdminStatsRouter(
	r chi.Router,
	userService *services.UserService,
	bookService *services.BookService,
	categoryService *services.CategoryService,
	messageService *services.MessageService,
) {
	handler := &StatsHandler{
		userService:     userService,
		bookService:     bookService,
		categoryService: categoryService,
		messageService:  messageService,
	}

	r.Get("/", handler.GetStats)
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var stats types.Stats
	var err error

	if stats.Users, err = h.userService.Count(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	if stats.Books, err = h.bookService.Count(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	if stats.Categories, err = h.categoryService.Count(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	if stats.Messages, err = h.messageService.Count(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
