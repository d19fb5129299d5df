package main

import (
	"fmt"

	"github.com/AmirAliEidivandi/movie/pkg/config"
	"github.com/AmirAliEidivandi/movie/pkg/database"
	"github.com/AmirAliEidivandi/movie/pkg/logger"
	"github.com/AmirAliEidivandi/movie/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	testUsers := []struct {
		email    string
		username string
		password string
		genres   []string
		balance  int
	}{
		{"alice@test.com", "alice_movies", "password123", []string{"Drama", "Sci-Fi"}, 500000},
		{"bob@test.com", "bob_movies", "password123", []string{"Action"}, 150000},
		{"charlie@test.com", "charlie_movies", "password123", []string{"Comedy", "Horror"}, 0},
		{"diana@test.com", "diana_movies", "password123", []string{"Documentary"}, 2000000},
		{"eve@test.com", "eve_movies", "password123", nil, 75000},
	}

	for _, tu := range testUsers {
		hashed, err := bcrypt.GenerateFromPassword([]byte(tu.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", tu.email, err)
		}

		user := models.User{
			Email:          tu.email,
			Username:       tu.username,
			Password:       string(hashed),
			FavoriteGenres: tu.genres,
		}
		result := db.Where("email = ?", tu.email).FirstOrCreate(&user)
		if result.Error != nil {
			return fmt.Errorf("failed to create user %s: %w", tu.email, result.Error)
		}
		if result.RowsAffected == 0 {
			log.Info("User %s already exists, skipping", tu.email)
			continue
		}
		log.Info("Created user %s", tu.email)

		wallet := models.Wallet{
			UserID:   user.ID,
			Balance:  tu.balance,
			Currency: "IRR",
		}
		if err := db.Create(&wallet).Error; err != nil {
			return fmt.Errorf("failed to create wallet for %s: %w", tu.email, err)
		}

		if tu.balance > 0 {
			// Seed a settled deposit that accounts for the opening balance
			deposit := models.WalletTransaction{
				WalletID:    wallet.ID,
				UserID:      user.ID,
				Amount:      tu.balance,
				Type:        models.TransactionTypeDeposit,
				Status:      models.TransactionStatusSuccess,
				Description: "Seed deposit",
				Gateway:     "manual",
			}
			if err := db.Create(&deposit).Error; err != nil {
				return fmt.Errorf("failed to create seed deposit for %s: %w", tu.email, err)
			}
		}
	}

	return nil
}
