package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	memberdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/member"
	userdm "github.com/amala-code/new-admin-backend/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin user and sample members for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		if clearData {
			for _, table := range []string{"processed_payments", "members", "non_members", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		adminEmail := "admin@mail.com"
		var count int64
		db.Model(&userdm.User{}).Where("email = ?", adminEmail).Count(&count)
		if count == 0 {
			admin := userdm.User{
				Email:        adminEmail,
				FullName:     "Admin",
				PasswordHash: string(hash),
				IsActive:     true,
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		} else {
			fmt.Println("admin user already exists")
		}

		samples := []memberdm.Member{
			{
				ExternalID: "MEM001",
				Name:       "Arun Kumar",
				Email:      "arun@mail.com",
				Phone:      "9000000001",
				MemberTrue: true,
			},
			{
				ExternalID: "MEM002",
				Name:       "Divya Nair",
				Email:      "divya@mail.com",
				Phone:      "9000000002",
				MemberTrue: true,
			},
		}
		for _, m := range samples {
			var exists int64
			db.Model(&memberdm.Member{}).Where("external_id = ?", m.ExternalID).Count(&exists)
			if exists > 0 {
				continue
			}
			if err := db.Create(&m).Error; err != nil {
				log.Fatalf("failed to insert member %s: %v", m.ExternalID, err)
			}
			fmt.Println("Seeded member:", m.ExternalID)
		}
	},
}
