package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hello-ai/joebot/internal/profile"
	"github.com/hello-ai/joebot/store"
	"github.com/hello-ai/joebot/store/db/sqlite"
)

// NewTestingStore returns a Store backed by a throwaway sqlite database
// under t.TempDir(). The schema is created before it is returned.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	dir := t.TempDir()
	testProfile := &profile.Profile{
		Mode: "prod",
		Data: dir,
		DSN:  filepath.Join(dir, "joebot_test.db"),
	}

	driver, err := sqlite.NewDB(testProfile)
	if err != nil {
		t.Fatalf("failed to open sqlite driver: %v", err)
	}

	ts := store.New(driver, testProfile)
	ts.EnsureSchema(ctx)
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return ts
}
