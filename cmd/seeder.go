package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"transfer_audits", "revoked_tokens", "session_identities", "employees"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		employees := []struct {
			ID         string
			ArName     string
			EnName     string
			JobTitle   string
			Department string
			NationalID string
			HiringDate string
			ADUsername string
		}{
			{"EMP001", "أحمد حسن", "Ahmed Hassan", "Network Engineer", "IT", "29805120101234", "2019-03-01", "ahassan"},
			{"EMP002", "سارة إبراهيم", "Sara Ibrahim", "HR Specialist", "HR", "29911230205678", "2021-07-15", "sibrahim"},
			{"EMP003", "محمد علي", "Mohamed Aly", "Accountant", "Accountant", "29607040309876", "2017-01-10", "maly"},
		}

		for _, e := range employees {
			var exists int
			row := db.Raw("SELECT 1 FROM employees WHERE employee_id = ?", e.ID).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("employee %s already exists, skipping\n", e.ID)
				continue
			}

			if err := db.Exec(
				"INSERT INTO employees (employee_id, full_ar_name, full_en_name, job_title, department, national_id, hiring_date, ad_username, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, true, now(), now())",
				e.ID, e.ArName, e.EnName, e.JobTitle, e.Department, e.NationalID, e.HiringDate, e.ADUsername,
			).Error; err != nil {
				log.Fatalf("failed to insert employee %s: %v", e.ID, err)
			}
			fmt.Println("Seeded employee:", e.ID)
		}

		// Mark the IT engineer as directory admin so transfers can be
		// exercised right after seeding.
		adminUsername := "ahassan"
		var exists int
		row := db.Raw("SELECT 1 FROM session_identities WHERE username = ?", adminUsername).Row()
		if err := row.Scan(&exists); err == nil {
			if err := db.Exec("UPDATE session_identities SET is_admin = true, updated_at = now() WHERE username = ?", adminUsername).Error; err != nil {
				log.Fatalf("failed to promote admin identity: %v", err)
			}
		} else {
			if err := db.Exec(
				"INSERT INTO session_identities (username, is_admin, created_at, updated_at) VALUES (?, true, now(), now())",
				adminUsername,
			).Error; err != nil {
				log.Fatalf("failed to insert admin identity: %v", err)
			}
		}
		fmt.Println("Granted admin privilege to:", adminUsername)

		fmt.Println("Seed data loaded successfully")
	},
}
