package cmd

import (
	"fmt"
	"log"

	"github.com/anshumat/payroll-management/internal/identity"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo accounts",
	Long:  `Seed the database with the demo accounts used by the hosted dashboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initGorm(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		accounts := []struct {
			Email    string
			Password string
			Role     identity.Role
		}{
			{"hire-me@anshumat.org", "HireMe@2025!", identity.RoleEmployee},
			{"admin@company.com", "Admin@2025!", identity.RoleAdmin},
		}

		for _, acc := range accounts {
			var existing identity.User
			err := db.Where("email = ?", acc.Email).First(&existing).Error
			if err == nil {
				fmt.Println("user already exists:", acc.Email)
				continue
			}
			if err != gorm.ErrRecordNotFound {
				log.Fatalf("failed to look up user %s: %v", acc.Email, err)
			}

			hash, err := identity.HashPassword(acc.Password, cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash password for %s: %v", acc.Email, err)
			}

			user := &identity.User{
				Email:        acc.Email,
				PasswordHash: hash,
				Role:         acc.Role,
			}
			if err := db.Create(user).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", acc.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", acc.Role, acc.Email)
		}
	},
}
