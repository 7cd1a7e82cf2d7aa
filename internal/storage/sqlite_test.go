package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T, path string) *SQLite {
	t.Helper()
	gw, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}

func TestSQLiteGetMissing(t *testing.T) {
	gw := openTestDB(t, filepath.Join(t.TempDir(), "store.db"))

	_, ok, err := gw.Get(context.Background(), CollectionBookmarks)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unwritten collection reported present")
	}
}

func TestSQLiteSetGet(t *testing.T) {
	gw := openTestDB(t, filepath.Join(t.TempDir(), "store.db"))
	ctx := context.Background()

	want := []byte(`[{"id":"b1"}]`)
	if err := gw.Set(ctx, CollectionBookmarks, want); err != nil {
		t.Fatal(err)
	}

	got, ok, err := gw.Get(ctx, CollectionBookmarks)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || !bytes.Equal(got, want) {
		t.Errorf("got %q ok=%v, want %q", got, ok, want)
	}
}

func TestSQLiteReplaceDocument(t *testing.T) {
	gw := openTestDB(t, filepath.Join(t.TempDir(), "store.db"))
	ctx := context.Background()

	if err := gw.Set(ctx, CollectionTags, []byte(`["old"]`)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Set(ctx, CollectionTags, []byte(`["new"]`)); err != nil {
		t.Fatal(err)
	}

	got, _, err := gw.Get(ctx, CollectionTags)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `["new"]` {
		t.Errorf("got %q, want the replacement document", got)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	ctx := context.Background()

	gw, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := gw.Set(ctx, CollectionCategories, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := openTestDB(t, path)
	_, ok, err := reopened.Get(ctx, CollectionCategories)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("data did not survive a close/reopen cycle")
	}
}

func TestSQLiteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "store.db")
	gw := openTestDB(t, path)
	if gw.Path() != path {
		t.Errorf("path = %q, want %q", gw.Path(), path)
	}
}

func TestSQLiteDoubleClose(t *testing.T) {
	gw, err := OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}
