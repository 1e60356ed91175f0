package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/kutuphane/apiserver/internal/events"
	"github.com/kutuphane/apiserver/internal/services"
	"github.com/kutuphane/apiserver/internal/store"
	"github.com/kutuphane/apiserver/types"
)

const testSecret = "test-secret"

type memUserRepo struct {
	nextID int
	users  map[int]types.User
}

func newMemUserRepo(users ...types.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[int]types.User)}
	for _, user := range users {
		repo.users[user.ID] = user
		if user.ID > repo.nextID {
			repo.nextID = user.ID
		}
	}
	return repo
}

func (m *memUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	user, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) UpdateRole(ctx context.Context, id int, role types.Role) error {
	user, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Role = role
	m.users[id] = user
	return nil
}

func (m *memUserRepo) ListWithCounts(ctx context.Context) ([]types.UserWithCounts, error) {
	list := make([]types.UserWithCounts, 0, len(m.users))
	for _, user := range m.users {
		list = append(list, types.UserWithCounts{User: user})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memUserRepo) ListSummaries(ctx context.Context, excludeID int) ([]types.UserSummary, error) {
	list := make([]types.UserSummary, 0)
	for _, user := range m.users {
		if user.ID == excludeID {
			continue
		}
		list = append(list, types.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *memUserRepo) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *memUserRepo) DeleteCascade(ctx context.Context, id int) error {
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type memCategoryRepo struct {
	nextID     int
	categories map[int]types.Category
}

func newMemCategoryRepo(categories ...types.Category) *memCategoryRepo {
	repo := &memCategoryRepo{categories: make(map[int]types.Category)}
	for _, category := range categories {
		repo.categories[category.ID] = category
		if category.ID > repo.nextID {
			repo.nextID = category.ID
		}
	}
	return repo
}

func (m *memCategoryRepo) List(ctx context.Context) ([]types.Category, error) {
	list := make([]types.Category, 0, len(m.categories))
	for _, category := range m.categories {
		list = append(list, category)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *memCategoryRepo) Get(ctx context.Context, id int) (types.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return types.Category{}, store.ErrNotFound
	}
	return category, nil
}

func (m *memCategoryRepo) Create(ctx context.Context, category types.Category) (types.Category, error) {
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return types.Category{}, store.ErrConflict
		}
	}
	m.nextID++
	category.ID = m.nextID
	m.categories[category.ID] = category
	return category, nil
}

func (m *memCategoryRepo) Delete(ctx context.Context, id int) error {
	if _, ok := m.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *memCategoryRepo) Count(ctx context.Context) (int, error) {
	return len(m.categories), nil
}

type memBookRepo struct {
	nextID     int
	books      map[int]types.Book
	categories *memCategoryRepo
}

func newMemBookRepo(categories *memCategoryRepo, books ...types.Book) *memBookRepo {
	repo := &memBookRepo{books: make(map[int]types.Book), categories: categories}
	for _, book := range books {
		repo.books[book.ID] = book
		if book.ID > repo.nextID {
			repo.nextID = book.ID
		}
	}
	return repo
}

func (m *memBookRepo) List(ctx context.Context, categoryID int) ([]types.Book, error) {
	list := make([]types.Book, 0)
	for _, book := range m.books {
		if categoryID > 0 && book.CategoryID != categoryID {
			continue
		}
		list = append(list, book)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (m *memBookRepo) ListByCreator(ctx context.Context, userID int) ([]types.Book, error) {
	list := make([]types.Book, 0)
	for _, book := range m.books {
		if book.CreatedByID == userID {
			list = append(list, book)
		}
	}
	return list, nil
}

func (m *memBookRepo) Get(ctx context.Context, id int) (types.Book, error) {
	book, ok := m.books[id]
	if !ok {
		return types.Book{}, store.ErrNotFound
	}
	return book, nil
}

func (m *memBookRepo) Create(ctx context.Context, book types.Book) (types.Book, error) {
	if _, ok := m.categories.categories[book.CategoryID]; !ok {
		return types.Book{}, store.ErrInvalidRef
	}
	m.nextID++
	book.ID = m.nextID
	m.books[book.ID] = book
	return book, nil
}

func (m *memBookRepo) Update(ctx context.Context, book types.Book) (types.Book, error) {
	existing, ok := m.books[book.ID]
	if !ok {
		return types.Book{}, store.ErrNotFound
	}
	if _, ok := m.categories.categories[book.CategoryID]; !ok {
		return types.Book{}, store.ErrInvalidRef
	}
	book.CreatedByID = existing.CreatedByID
	m.books[book.ID] = book
	return book, nil
}

func (m *memBookRepo) Delete(ctx context.Context, id int) error {
	if _, ok := m.books[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *memBookRepo) CountByCategory(ctx context.Context, categoryID int) (int, error) {
	count := 0
	for _, book := range m.books {
		if book.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *memBookRepo) CountByCreator(ctx context.Context, userID int) (int, error) {
	count := 0
	for _, book := range m.books {
		if book.CreatedByID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memBookRepo) Count(ctx context.Context) (int, error) {
	return len(m.books), nil
}

type memMessageRepo struct {
	nextID   int
	messages map[int]types.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{messages: make(map[int]types.Message)}
}

func (m *memMessageRepo) ListForUser(ctx context.Context, userID int) ([]types.Message, error) {
	list := make([]types.Message, 0)
	for _, message := range m.messages {
		if message.FromID == userID || message.ToID == userID {
			list = append(list, message)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (m *memMessageRepo) Create(ctx context.Context, message types.Message) (types.Message, error) {
	m.nextID++
	message.ID = m.nextID
	m.messages[message.ID] = message
	return message, nil
}

func (m *memMessageRepo) Count(ctx context.Context) (int, error) {
	return len(m.messages), nil
}

type memProfileRepo struct {
	nextID   int
	profiles map[int]types.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[int]types.Profile)}
}

func (m *memProfileRepo) GetByUserID(ctx context.Context, userID int) (types.Profile, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return types.Profile{}, store.ErrNotFound
	}
	return profile, nil
}

func (m *memProfileRepo) Upsert(ctx context.Context, profile types.Profile) (types.Profile, error) {
	if existing, ok := m.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
	} else {
		m.nextID++
		profile.ID = m.nextID
	}
	m.profiles[profile.UserID] = profile
	return profile, nil
}

type discardBackend struct{}

func (discardBackend) Publish(context.Context, string, []byte, map[string]string) (string, error) {
	return "", nil
}

func (discardBackend) Close() error { return nil }

type testEnv struct {
	router    *chi.Mux
	userRepo  *memUserRepo
	catRepo   *memCategoryRepo
	bookRepo  *memBookRepo
	msgRepo   *memMessageRepo
	profRepo  *memProfileRepo
	publisher *events.Publisher
}

// newTestEnv wires the full route map over in-memory repositories,
// mirroring the construction in internal/server.
func newTestEnv(users ...types.User) *testEnv {
	userRepo := newMemUserRepo(users...)
	catRepo := newMemCategoryRepo()
	bookRepo := newMemBookRepo(catRepo)
	msgRepo := newMemMessageRepo()
	profRepo := newMemProfileRepo()

	userService := services.NewUserService(userRepo, bookRepo)
	profileService := services.NewProfileService(profRepo)
	categoryService := services.NewCategoryService(catRepo, bookRepo)
	bookService := services.NewBookService(bookRepo)
	messageService := services.NewMessageService(msgRepo, userRepo)

	publisher := events.New(discardBackend{})
	authMiddleware := RequireAuth(testSecret)
	adminMiddleware := RequireAdmin(userService)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, publisher, testSecret)
	})
	router.Route("/books", func(r chi.Router) {
		BookRouter(r, bookService)
	})
	router.Route("/categories", func(r chi.Router) {
		CategoryRouter(r, categoryService)
	})
	router.Route("/users", func(r chi.Router) {
		UserRouter(r, userService, profileService, bookService, authMiddleware)
	})
	router.Route("/messages", func(r chi.Router) {
		r.Use(authMiddleware)
		MessageRouter(r, messageService, publisher)
	})
	router.Route("/profile", func(r chi.Router) {
		r.Use(authMiddleware)
		ProfileRouter(r, profileService, userService, nil)
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware, adminMiddleware)
		r.Route("/books", func(r chi.Router) {
			AdminBookRouter(r, bookService)
		})
		r.Route("/categories", func(r chi.Router) {
			AdminCategoryRouter(r, categoryService)
		})
		r.Route("/users", func(r chi.Router) {
			AdminUserRouter(r, userService, profileService, bookService, publisher)
		})
		r.Route("/stats", func(r chi.Router) {
			AdminStatsRouter(r, userService, bookService, categoryService, messageService)
		})
	})

	return &testEnv{
		router:    router,
		userRepo:  userRepo,
		catRepo:   catRepo,
		bookRepo:  bookRepo,
		msgRepo:   msgRepo,
		profRepo:  profRepo,
		publisher: publisher,
	}
}

func (e *testEnv) token(userID int) string {
	token, err := issueToken(userID, []byte(testSecret), defaultTokenTTL)
	if err != nil {
		panic(err)
	}
	return token
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
