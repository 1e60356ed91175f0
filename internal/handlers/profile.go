package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kutuphane/apiserver/internal/services"
	"github.com/kutuphane/apiserver/internal/storage"
	"github.com/kutuphane/apiserver/internal/store"
	"github.com/kutuphane/apiserver/types"
)

const maxAvatarBytes = 5 << 20
const formFieldAvatar = "avatar"

// ProfileHandler provides HTTP handlers for the session user's profile.
type ProfileHandler struct {
	profileService *services.ProfileService
	userService    *services.UserService
	avatars        *storage.AvatarStore
}

// NewProfileHandler constructs a handler with the provided dependencies.
// avatars may be nil when no object-storage backend is configured.
func NewProfileHandler(profileService *services.ProfileService, userService *services.UserService, avatars *storage.AvatarStore) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		userService:    userService,
		avatars:        avatars,
	}
}

// ProfileRouter registers the profile routes. The caller mounts it
// behind auth middleware.
func ProfileRouter(r chi.Router, profileService *services.ProfileService, userService *services.UserService, avatars *storage.AvatarStore) {
	handler := NewProfileHandler(profileService, userService, avatars)

	r.Get("/", handler.GetProfile)
	r.Put("/", handler.UpsertProfile)
	r.Put("/avatar", handler.UploadAvatar)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	resp := ProfileResponse{User: user}
	profile, err := h.profileService.GetByUserID(r.Context(), userID)
	if err == nil {
		resp.Profile = &profile
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpsertProfile creates or updates the session user's profile. The
// profile key always comes from the session, never the request.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	profile, err := h.profileService.Upsert(r.Context(), userID, req.Bio, req.Location, req.AvatarURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UploadAvatar stores an avatar image in object storage and records
// its URL on the profile.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if h.avatars == nil {
		writeError(w, http.StatusServiceUnavailable, "avatar storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(formFieldAvatar)
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		writeError(w, http.StatusBadRequest, "avatar file too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "avatar must be an image")
		return
	}

	url, err := h.avatars.Save(r.Context(), userID, header.Filename, file, header.Size, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store avatar")
		return
	}

	profile, err := h.profileService.SetAvatarURL(r.Context(), userID, url)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpsertProfileRequest is the payload for updating a profile. Each
// field is independently nullable.
type UpsertProfileRequest struct {
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	AvatarURL *string `json:"avatar_url"`
}

// ProfileResponse bundles the user with their optional profile.
type ProfileResponse struct {
	User    types.User     `json:"user"`
	Profile *types.Profile `json:"profile,omitempty"`
}
