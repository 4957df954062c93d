package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartgrocer/grocer-backend/pkg/migrate"
)

func TestLedgerMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_inventory_transactions.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no ledger migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_transactions",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT",
		"CHECK (quantity > 0)",
		"CHECK (quantity_delta <> 0)",
		"DROP TABLE IF EXISTS inventory_transactions",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	// ledger rows are append-only; nothing may delete them via the product row
	if strings.Contains(content, "ON DELETE CASCADE") {
		t.Errorf("ledger foreign key must not cascade deletes")
	}
}

func TestProductsMigrationGuardsStock(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_catalog_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no catalog migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}

	if !strings.Contains(string(data), "CHECK (stock_quantity >= 0)") {
		t.Errorf("products table must reject negative stock at the schema level")
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
