package handlers

import (
	"net/http"
	"testing"

	"github.com/kutuphane/apiserver/types"
)

func adminEnv() *testEnv {
	return newTestEnv(
		types.User{ID: 1, Email: "admin@example.com", Name: "Admin", Role: types.RoleAdmin},
		types.User{ID: 2, Email: "user@example.com", Name: "User", Role: types.RoleUser},
	)
}

func TestAdminGuard(t *testing.T) {
	env := adminEnv()
	userToken := env.token(2)

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/admin/books"},
		{http.MethodPost, "/admin/categories"},
		{http.MethodGet, "/admin/users"},
		{http.MethodGet, "/admin/stats"},
		{http.MethodDelete, "/admin/users/1"},
	}
	for _, target := range targets {
		rec := doJSON(t, env, target.method, target.path, userToken, `{}`)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s: status = %d, want %d", target.method, target.path, rec.Code, http.StatusForbidden)
		}
	}
	if len(env.userRepo.users) != 2 || len(env.bookRepo.books) != 0 || len(env.catRepo.categories) != 0 {
		t.Fatal("forbidden requests must not mutate state")
	}

	rec := doJSON(t, env, http.MethodGet, "/admin/stats", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous admin request: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAdminCategoryLifecycle(t *testing.T) {
	env := adminEnv()
	adminToken := env.token(1)

	rec := doJSON(t, env, http.MethodPost, "/admin/categories", adminToken, `{"name":"Roman"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[types.Category](t, rec)
	if created.ID == 0 || created.Name != "Roman" {
		t.Fatalf("unexpected category: %+v", created)
	}

	dup := doJSON(t, env, http.MethodPost, "/admin/categories", adminToken, `{"name":"Roman"}`)
	if dup.Code != http.StatusConflict {
		t.Fatalf("duplicate: status = %d, want %d", dup.Code, http.StatusConflict)
	}

	blank := doJSON(t, env, http.MethodPost, "/admin/categories", adminToken, `{"name":"  "}`)
	if blank.Code != http.StatusBadRequest {
		t.Fatalf("blank name: status = %d, want %d", blank.Code, http.StatusBadRequest)
	}

	del := doJSON(t, env, http.MethodDelete, "/admin/categories/1", adminToken, "")
	if del.Code != http.StatusOK {
		t.Fatalf("delete: status = %d: %s", del.Code, del.Body.String())
	}
	if len(env.catRepo.categories) != 0 {
		t.Fatal("category should be gone")
	}

	missing := doJSON(t, env, http.MethodDelete, "/admin/categories/1", adminToken, "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("delete missing: status = %d, want %d", missing.Code, http.StatusNotFound)
	}
}

func TestAdminCategoryDeleteInUse(t *testing.T) {
	env := adminEnv()
	adminToken := env.token(1)

	doJSON(t, env, http.MethodPost, "/admin/categories", adminToken, `{"name":"Roman"}`)
	rec := doJSON(t, env, http.MethodPost, "/admin/books", adminToken,
		`{"title":"Suç ve Ceza","author":"Dostoyevski","category_id":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create book: status = %d: %s", rec.Code, rec.Body.String())
	}

	del := doJSON(t, env, http.MethodDelete, "/admin/categories/1", adminToken, "")
	if del.Code != http.StatusBadRequest {
		t.Fatalf("delete in-use category: status = %d, want %d", del.Code, http.StatusBadRequest)
	}
	if len(env.catRepo.categories) != 1 {
		t.Fatal("category with books must survive the delete attempt")
	}
}

func TestAdminBookLifecycle(t *testing.T) {
	env := adminEnv()
	adminToken := env.token(1)
	doJSON(t, env, http.MethodPost, "/admin/categories", adminToken, `{"name":"Roman"}`)

	rec := doJSON(t, env, http.MethodPost, "/admin/books", adminToken,
		`{"title":"Suç ve Ceza","author":"Dostoyevski","description":"Klasik","category_id":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[types.Book](t, rec)
	if created.CreatedByID != 1 {
		t.Fatalf("creator = %d, want the session admin", created.CreatedByID)
	}

	update := doJSON(t, env, http.MethodPut, "/admin/books/1", adminToken,
		`{"title":"Suç ve Ceza","author":"F. Dostoyevski","category_id":1}`)
	if update.Code != http.StatusOK {
		t.Fatalf("update: status = %d: %s", update.Code, update.Body.String())
	}
	updated := decodeBody[types.Book](t, update)
	if updated.Author != "F. Dostoyevski" {
		t.Fatalf("author = %q", updated.Author)
	}
	if updated.CreatedByID != 1 {
		t.Fatal("update must not change the creator")
	}

	badCat := doJSON(t, env, http.MethodPost, "/admin/books", adminToken,
		`{"title":"1984","author":"Orwell","category_id":99}`)
	if badCat.Code != http.StatusNotFound {
		t.Fatalf("unknown category: status = %d, want %d", badCat.Code, http.StatusNotFound)
	}

	noTitle := doJSON(t, env, http.MethodPost, "/admin/books", adminToken,
		`{"author":"Orwell","category_id":1}`)
	if noTitle.Code != http.StatusBadRequest {
		t.Fatalf("missing title: status = %d, want %d", noTitle.Code, http.StatusBadRequest)
	}

	del := doJSON(t, env, http.MethodDelete, "/admin/books/1", adminToken, "")
	if del.Code != http.StatusOK {
		t.Fatalf("delete: status = %d: %s", del.Code, del.Body.String())
	}
	if len(env.bookRepo.books) != 0 {
		t.Fatal("book should be gone")
	}
}

func TestAdminChangeRole(t *testing.T) {
	env := adminEnv()
	adminToken := env.token(1)

	rec := doJSON(t, env, http.MethodPut, "/admin/users/2/role", adminToken, `{"role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if env.userRepo.users[2].Role != types.RoleAdmin {
		t.Fatalf("role = %q, want admin", env.userRepo.users[2].Role)
	}

	self := doJSON(t, env, http.MethodPut, "/admin/users/1/role", adminToken, `{"role":"user"}`)
	if self.Code != http.StatusBadRequest {
		t.Fatalf("self role change: status = %d, want %d", self.Code, http.StatusBadRequest)
	}
	if env.userRepo.users[1].Role != types.RoleAdmin {
		t.Fatal("own role must be untouched")
	}

	bogus := doJSON(t, env, http.MethodPut, "/admin/users/2/role", adminToken, `{"role":"superuser"}`)
	if bogus.Code != http.StatusBadRequest {
		t.Fatalf("unknown role: status = %d, want %d", bogus.Code, http.StatusBadRequest)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	env := adminEnv()
	adminToken := env.token(1)

	self := doJSON(t, env, http.MethodDelete, "/admin/users/1", adminToken, "")
	if self.Code != http.StatusBadRequest {
		t.Fatalf("self delete: status = %d, want %d", self.Code, http.StatusBadRequest)
	}

	doJSON(t, env, http.MethodPost, "/admin/categories", adminToken, `{"name":"Roman"}`)
	env.bookRepo.books[1] = types.Book{ID: 1, Title: "Suç ve Ceza", Author: "Dostoyevski", CategoryID: 1, CreatedByID: 2}
	withBooks := doJSON(t, env, http.MethodDelete, "/admin/users/2", adminToken, "")
	if withBooks.Code != http.StatusBadRequest {
		t.Fatalf("delete creator: status = %d, want %d", withBooks.Code, http.StatusBadRequest)
	}
	if _, ok := env.userRepo.users[2]; !ok {
		t.Fatal("user with books must survive")
	}

	delete(env.bookRepo.books, 1)
	rec := doJSON(t, env, http.MethodDelete, "/admin/users/2", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status = %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := env.userRepo.users[2]; ok {
		t.Fatal("user should be gone")
	}

	missing := doJSON(t, env, http.MethodDelete, "/admin/users/2", adminToken, "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("delete missing: status = %d, want %d", missing.Code, http.StatusNotFound)
	}
}

func TestAdminStats(t *testing.T) {
	env := adminEnv()
	adminToken := env.token(1)
	doJSON(t, env, http.MethodPost, "/admin/categories", adminToken, `{"name":"Roman"}`)
	doJSON(t, env, http.MethodPost, "/admin/books", adminToken,
		`{"title":"Suç ve Ceza","author":"Dostoyevski","category_id":1}`)

	rec := doJSON(t, env, http.MethodGet, "/admin/stats", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	stats := decodeBody[types.Stats](t, rec)
	if stats.Users != 2 || stats.Books != 1 || stats.Categories != 1 || stats.Messages != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
