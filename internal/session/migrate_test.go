package session

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestMigrate_AppliesOnce(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()

	ran, err := migrate(ctx, db)
	if err != nil {
		t.Fatalf("migrate() error = %v", err)
	}
	if len(ran) != 1 || ran[0] != "0001_create_kv.sql" {
		t.Errorf("first migrate() ran %v, want [0001_create_kv.sql]", ran)
	}

	ran, err = migrate(ctx, db)
	if err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
	if len(ran) != 0 {
		t.Errorf("second migrate() ran %v, want nothing", ran)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if n != 1 {
		t.Errorf("schema_migrations has %d rows, want 1", n)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO kv (key, value) VALUES ('k', 'v')"); err != nil {
		t.Errorf("kv table not usable after migrate: %v", err)
	}
}
