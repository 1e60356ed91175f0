package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kutuphane/apiserver/internal/events"
	"github.com/kutuphane/apiserver/internal/services"
	"github.com/kutuphane/apiserver/internal/store"
	"github.com/kutuphane/apiserver/types"
)

// UserHandler provides HTTP handlers for user listing, public user
// pages, and admin user management.
type UserHandler struct {
	userService    *services.UserService
	profileService *services.ProfileService
	bookService    *services.BookService
	publisher      *events.Publisher
}

// NewUserHandler constructs a handler with the provided dependencies.
func NewUserHandler(
	userService *services.UserService,
	profileService *services.ProfileService,
	bookService *services.BookService,
	publisher *events.Publisher,
) *UserHandler {
	return &UserHandler{
		userService:    userService,
		profileService: profileService,
		bookService:    bookService,
		publisher:      publisher,
	}
}

// UserRouter registers the user routes: a public detail page and an
// authenticated recipient listing.
func UserRouter(
	r chi.Router,
	userService *services.UserService,
	profileService *services.ProfileService,
	bookService *services.BookService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewUserHandler(userService, profileService, bookService, nil)

	r.With(authMiddleware).Get("/", handler.ListUsers)
	r.Get("/{userID}", handler.GetUser)
}

// AdminUserRouter registers the admin user management routes.
func AdminUserRouter(
	r chi.Router,
	userService *services.UserService,
	profileService *services.ProfileService,
	bookService *services.BookService,
	publisher *events.Publisher,
) {
	handler := NewUserHandler(userService, profileService, bookService, publisher)

	r.Get("/", handler.ListUsersWithCounts)
	r.Put("/{userID}/role", handler.ChangeRole)
	r.Delete("/{userID}", handler.DeleteUser)
}

// ListUsers returns every other user as a recipient picker.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	users, err := h.userService.ListSummaries(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, UserListResponse{Items: users, Total: len(users)})
}

// GetUser returns the public view of a user: summary, profile, and
// authored books.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	resp := UserDetailResponse{
		User: types.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
	}

	profile, err := h.profileService.GetByUserID(r.Context(), id)
	if err == nil {
		resp.Profile = &profile
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	books, err := h.bookService.ListByCreator(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load books")
		return
	}
	resp.Books = books

	writeJSON(w, http.StatusOK, resp)
}

// ListUsersWithCounts returns every user with usage counts for the
// admin user management screen.
func (h *UserHandler) ListUsersWithCounts(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListWithCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, AdminUserListResponse{Items: users, Total: len(users)})
}

// ChangeRole updates a user's role. An admin cannot change their own
// role.
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actorID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	role, err := types.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "role must be user or admin")
		return
	}

	if err := h.userService.ChangeRole(r.Context(), actorID, targetID, role); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfRoleChange):
			writeError(w, http.StatusBadRequest, "cannot change your own role")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update role")
		}
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Role updated successfully"})
}

// DeleteUser removes a user after the lifecycle guards pass.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), actorID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfDelete):
			writeError(w, http.StatusBadRequest, "cannot delete your own account")
		case errors.Is(err, services.ErrUserHasBooks):
			writeError(w, http.StatusBadRequest, "user has created books; reassign or delete them first")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	if h.publisher != nil {
		if err := h.publisher.UserDeleted(r.Context(), targetID); err != nil {
			log.Printf("publish user.deleted: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// ChangeRoleRequest is the payload for a role update.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// UserListResponse is the recipient picker payload.
type UserListResponse struct {
	Items []types.UserSummary `json:"items"`
	Total int                 `json:"total"`
}

// AdminUserListResponse is the admin user listing payload.
type AdminUserListResponse struct {
	Items []types.UserWithCounts `json:"items"`
	Total int                    `json:"total"`
}

// UserDetailResponse is the public user page payload.
type UserDetailResponse struct {
	User    types.UserSummary `json:"user"`
	Profile *types.Profile    `json:"profile,omitempty"`
	Books   []types.Book      `json:"books"`
}
