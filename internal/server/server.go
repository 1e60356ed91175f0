package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kutuphane/apiserver/config"
	"github.com/kutuphane/apiserver/internal/db"
	"github.com/kutuphane/apiserver/internal/events"
	"github.com/kutuphane/apiserver/internal/handlers"
	"github.com/kutuphane/apiserver/internal/services"
	"github.com/kutuphane/apiserver/internal/storage"
	"github.com/kutuphane/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  *events.Publisher
}

// New constructs a Server: database, repositories, services, event
// publisher, avatar storage, and the route map.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	profileRepo := store.NewProfileRepository(dbConn)
	categoryRepo := store.NewCategoryRepository(dbConn)
	bookRepo := store.NewBookRepository(dbConn)
	messageRepo := store.NewMessageRepository(dbConn)

	userService := services.NewUserService(userRepo, bookRepo)
	profileService := services.NewProfileService(profileRepo)
	categoryService := services.NewCategoryService(categoryRepo, bookRepo)
	bookService := services.NewBookService(bookRepo)
	messageService := services.NewMessageService(messageRepo, userRepo)

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	publisher, err := events.NewFromConfig(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	avatars, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		_ = publisher.Close()
		return nil, err
	}
	if avatars != nil {
		if err := avatars.EnsureBucket(ctx); err != nil {
			_ = dbConn.Close()
			_ = publisher.Close()
			return nil, err
		}
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)
	adminMiddleware := handlers.RequireAdmin(userService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)

	router.Get("/healthz", handlers.Healthz)

	// Public section: home catalog, auth, user pages.
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, publisher, jwtSecret)
	})
	router.Route("/books", func(r chi.Router) {
		handlers.BookRouter(r, bookService)
	})
	router.Route("/categories", func(r chi.Router) {
		handlers.CategoryRouter(r, categoryService)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, profileService, bookService, authMiddleware)
	})

	// Authenticated section: messaging and the session user's profile.
	router.Route("/messages", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.MessageRouter(r, messageService, publisher)
	})
	router.Route("/profile", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.ProfileRouter(r, profileService, userService, avatars)
	})

	// Admin section: book, category, and user management.
	router.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware, adminMiddleware)
		r.Route("/books", func(r chi.Router) {
			handlers.AdminBookRouter(r, bookService)
		})
		r.Route("/categories", func(r chi.Router) {
			handlers.AdminCategoryRouter(r, categoryService)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.AdminUserRouter(r, userService, profileService, bookService, publisher)
		})
		r.Route("/stats", func(r chi.Router) {
			handlers.AdminStatsRouter(r, userService, bookService, categoryService, messageService)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		publisher:  publisher,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
