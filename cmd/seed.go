/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kutuphane/apiserver/config"
	"github.com/kutuphane/apiserver/internal/db"
	"github.com/kutuphane/apiserver/internal/store"
	"github.com/kutuphane/apiserver/types"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// seedCmd represents the seed command.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with an admin, a test user, categories, and sample books",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return runSeed(cmd.Context(), dbConn)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCategories = []string{
	"Roman",
	"Bilim Kurgu",
	"Tarih",
	"Biyografi",
	"Şiir",
	"Felsefe",
	"Teknik",
	"Çocuk Kitapları",
}

type seedBook struct {
	title       string
	author      string
	description string
	category    string
}

var seedBooks = []seedBook{
	{
		title:       "Suç ve Ceza",
		author:      "Fyodor Dostoyevski",
		description: "Dostoyevski'nin en önemli eserlerinden biri",
		category:    "Roman",
	},
	{
		title:       "1984",
		author:      "George Orwell",
		description: "Distopik gelecek hakkında klasik bir roman",
		category:    "Bilim Kurgu",
	},
	{
		title:       "Nutuk",
		author:      "Mustafa Kemal Atatürk",
		description: "Kurtuluş Savaşı'nın hikayesi",
		category:    "Tarih",
	},
}

// runSeed is idempotent: existing users and categories are left alone,
// and sample books are only created into an empty catalog.
func runSeed(ctx context.Context, dbConn *sql.DB) error {
	userRepo := store.NewUserRepository(dbConn)
	profileRepo := store.NewProfileRepository(dbConn)
	categoryRepo := store.NewCategoryRepository(dbConn)
	bookRepo := store.NewBookRepository(dbConn)

	admin, err := ensureUser(ctx, userRepo, "admin@kutuphane.com", "Admin User", types.RoleAdmin, "admin123")
	if err != nil {
		return err
	}
	if err := ensureProfile(ctx, profileRepo, admin.ID, "Sistem yöneticisi", "Türkiye"); err != nil {
		return err
	}

	user, err := ensureUser(ctx, userRepo, "user@kutuphane.com", "Test User", types.RoleUser, "user123")
	if err != nil {
		return err
	}
	if err := ensureProfile(ctx, profileRepo, user.ID, "Kitap okumayı seven kullanıcı", "İstanbul"); err != nil {
		return err
	}

	categoryIDs, err := ensureCategories(ctx, categoryRepo)
	if err != nil {
		return err
	}

	bookCount, err := bookRepo.Count(ctx)
	if err != nil {
		return err
	}
	if bookCount == 0 {
		for _, seed := range seedBooks {
			categoryID, ok := categoryIDs[seed.category]
			if !ok {
				continue
			}
			description := seed.description
			if _, err := bookRepo.Create(ctx, types.Book{
				Title:       seed.title,
				Author:      seed.author,
				Description: &description,
				CategoryID:  categoryID,
				CreatedByID: admin.ID,
			}); err != nil {
				return err
			}
		}
	}

	fmt.Println("Seed data created successfully!")
	return nil
}

func ensureUser(ctx context.Context, repo *store.UserRepository, email, name string, role types.Role, password string) (types.User, error) {
	user, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	return repo.Create(ctx, types.User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hashed),
	})
}

func ensureProfile(ctx context.Context, repo *store.ProfileRepository, userID int, bio, location string) error {
	if _, err := repo.GetByUserID(ctx, userID); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	_, err := repo.Upsert(ctx, types.Profile{
		UserID:   userID,
		Bio:      &bio,
		Location: &location,
	})
	return err
}

func ensureCategories(ctx context.Context, repo *store.CategoryRepository) (map[string]int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]int, len(seedCategories))
	for _, category := range existing {
		ids[category.Name] = category.ID
	}

	for _, name := range seedCategories {
		if _, ok := ids[name]; ok {
			continue
		}
		created, err := repo.Create(ctx, types.Category{Name: name})
		if err != nil {
			return nil, err
		}
		ids[name] = created.ID
	}
	return ids, nil
}
