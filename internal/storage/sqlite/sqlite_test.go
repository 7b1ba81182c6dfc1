package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
	"github.com/mmynk/splitshare/internal/storage/storetest"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "splitshare-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		return newTestStore(t)
	})
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "splitshare-reopen-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "bills.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	user := models.NewUser("alex@example.com", "Alex Chen", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	group := &models.Group{Name: "Roommates", CreatedBy: user.ID}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	store.Close()

	// Migrations must be a no-op the second time around
	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup after reopen failed: %v", err)
	}
	if got.Name != "Roommates" || len(got.Members) != 1 {
		t.Errorf("unexpected group after reopen: %+v", got)
	}
}

func TestSQLiteStore_RejectsNonPositiveAmountAtSchemaLevel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alex@example.com", "Alex Chen", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	group := &models.Group{Name: "Roommates", CreatedBy: user.ID}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	// Bypass model validation to hit the CHECK constraint
	_, err := store.db.ExecContext(ctx,
		"INSERT INTO expenses (id, group_id, description, amount, payer_id, occurred_at, created_at) VALUES ('x', ?, 'Bad', -1, ?, 0, 0)",
		group.ID, user.ID,
	)
	if err == nil {
		t.Error("expected CHECK constraint to reject negative amount")
	}
}
