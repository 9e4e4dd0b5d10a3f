package cmd

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hsaledger/internal/category"
	"hsaledger/internal/expense"
	"hsaledger/internal/reimbursement"
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

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		categoryNames := []string{
			"Dental",
			"Vision",
			"Prescriptions",
			"Office Visits",
			"Lab Work",
			"Medical Equipment",
		}

		byName := map[string]string{}
		for _, name := range categoryNames {
			var exists int
			row := db.Raw("SELECT 1 FROM categories WHERE name = ?", name).Row()
			if err := row.Scan(&exists); err != nil {
				c := category.NewCategory(name)
				if err := db.Exec("INSERT INTO categories (id, name, created_at, updated_at) VALUES (?, ?, now(), now())", c.ID, c.Name).Error; err != nil {
					log.Fatalf("failed to insert category %s: %v", name, err)
				}
				fmt.Printf("Seeded category: %s\n", name)
			}
			var id string
			if err := db.Raw("SELECT id FROM categories WHERE name = ?", name).Row().Scan(&id); err != nil {
				log.Fatalf("category not found after insert %s: %v", name, err)
			}
			byName[name] = id
		}

		var expenseCount int64
		if err := db.Raw("SELECT COUNT(1) FROM expenses").Row().Scan(&expenseCount); err != nil {
			log.Fatalf("failed to count expenses: %v", err)
		}
		if expenseCount > 0 {
			fmt.Println("Expenses already present; skipping sample data")
			return
		}

		samples := []struct {
			Description string
			Amount      string
			DatePaid    string
			Method      string
			Category    string
			Reimbursed  string
		}{
			{"Annual dental cleaning", "180.00", "2026-01-14", "credit_card", "Dental", "180.00"},
			{"Replacement glasses", "420.50", "2026-02-03", "credit_card", "Vision", "250.00"},
			{"Allergy prescription refill", "38.75", "2026-03-21", "debit_card", "Prescriptions", ""},
			{"Urgent care visit", "225.00", "2026-05-09", "credit_card", "Office Visits", "100.00"},
			{"Bloodwork panel", "96.20", "2026-06-30", "check", "Lab Work", ""},
		}

		for _, s := range samples {
			catID := byName[s.Category]
			exp := expense.NewExpense(expense.CreateExpenseDTO{
				Description:   &s.Description,
				Amount:        decimal.RequireFromString(s.Amount),
				DatePaid:      s.DatePaid,
				PaymentMethod: s.Method,
				CategoryID:    &catID,
			})
			if err := db.Exec(
				"INSERT INTO expenses (id, description, amount, date_paid, payment_method, category_id, is_archived, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, false, now(), now())",
				exp.ID, exp.Description, exp.Amount, exp.DatePaid, exp.PaymentMethod, exp.CategoryID,
			).Error; err != nil {
				log.Fatalf("failed to insert expense %q: %v", s.Description, err)
			}
			fmt.Printf("Seeded expense: %s (%s)\n", s.Description, s.Amount)

			if s.Reimbursed == "" {
				continue
			}
			rb := reimbursement.NewReimbursement(reimbursement.AddReimbursementDTO{
				ExpenseID: exp.ID,
				Amount:    decimal.RequireFromString(s.Reimbursed),
			})
			if err := db.Exec(
				"INSERT INTO reimbursements (id, expense_id, amount, reimbursed_at, created_at) VALUES (?, ?, ?, ?, now())",
				rb.ID, rb.ExpenseID, rb.Amount, rb.ReimbursedAt,
			).Error; err != nil {
				log.Fatalf("failed to insert reimbursement for %q: %v", s.Description, err)
			}
			fmt.Printf("Seeded reimbursement: %s against %s\n", s.Reimbursed, s.Description)
		}

		fmt.Println("Sample data seeded successfully")
	},
}
