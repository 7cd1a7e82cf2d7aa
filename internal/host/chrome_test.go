package host

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeBookmarksFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Bookmarks")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testReader(path string) *ChromeReader {
	return NewChromeReader(path, log.New(io.Discard, "", 0))
}

const sampleBookmarks = `{
  "roots": {
    "bookmark_bar": {
      "id": "1", "name": "Bookmarks bar", "type": "folder",
      "children": [
        {
          "id": "10", "name": "Work", "type": "folder",
          "children": [
            {"id": "11", "name": "Example", "type": "url",
             "url": "https://example.com", "date_added": "13390272000000000"}
          ]
        },
        {"id": "12", "name": "Loose", "type": "url", "url": "https://loose.test"}
      ]
    },
    "other": {
      "id": "2", "name": "Other bookmarks", "type": "folder",
      "children": [
        {"id": "20", "name": "Saved", "type": "url", "url": "https://saved.test"}
      ]
    }
  }
}`

func TestReadTreeFlattens(t *testing.T) {
	reader := testReader(writeBookmarksFile(t, sampleBookmarks))

	nodes, err := reader.ReadTree(context.Background())
	if err != nil {
		t.Fatalf("read tree: %v", err)
	}

	// Root containers are filtered; depth-first, parent before children,
	// bookmark_bar before other.
	wantIDs := []string{"10", "11", "12", "20"}
	if len(nodes) != len(wantIDs) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(wantIDs))
	}
	for i, want := range wantIDs {
		if nodes[i].HostID != want {
			t.Errorf("node[%d] = %s, want %s", i, nodes[i].HostID, want)
		}
	}

	work := nodes[0]
	if !work.IsFolder() {
		t.Error("Work should be a folder")
	}
	if work.HostParentID != "" {
		t.Errorf("root-bucket child parent = %q, want empty (container filtered)", work.HostParentID)
	}

	example := nodes[1]
	if example.HostParentID != "10" {
		t.Errorf("Example parent = %q, want 10", example.HostParentID)
	}
	if example.IsFolder() {
		t.Error("Example should be a leaf")
	}
}

func TestReadTreeDeterministic(t *testing.T) {
	reader := testReader(writeBookmarksFile(t, sampleBookmarks))
	ctx := context.Background()

	first, err := reader.ReadTree(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := reader.ReadTree(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("node %d differs between reads", i)
		}
	}
}

func TestReadTreeTimestamps(t *testing.T) {
	reader := testReader(writeBookmarksFile(t, sampleBookmarks))

	nodes, err := reader.ReadTree(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// 13390272000000000 µs since 1601-01-01 is 2025-04-28 00:00:00 UTC.
	want := time.Date(2025, 4, 28, 0, 0, 0, 0, time.UTC)
	if got := nodes[1].DateAdded; !got.Equal(want) {
		t.Errorf("DateAdded = %v, want %v", got, want)
	}
	if !nodes[2].DateAdded.IsZero() {
		t.Errorf("missing date_added should yield zero time, got %v", nodes[2].DateAdded)
	}
}

func TestReadTreeMissingFile(t *testing.T) {
	reader := testReader(filepath.Join(t.TempDir(), "nope"))
	if _, err := reader.ReadTree(context.Background()); !errors.Is(err, ErrHostUnavailable) {
		t.Errorf("err = %v, want host unavailable", err)
	}
}

func TestReadTreeMalformedJSON(t *testing.T) {
	reader := testReader(writeBookmarksFile(t, "{not json"))
	if _, err := reader.ReadTree(context.Background()); !errors.Is(err, ErrHostUnavailable) {
		t.Errorf("err = %v, want host unavailable", err)
	}
}

func TestReadTreeNoRoots(t *testing.T) {
	reader := testReader(writeBookmarksFile(t, `{"roots": {}}`))
	if _, err := reader.ReadTree(context.Background()); !errors.Is(err, ErrHostUnavailable) {
		t.Errorf("err = %v, want host unavailable", err)
	}
}

func TestPassthroughsUnsupported(t *testing.T) {
	reader := testReader(writeBookmarksFile(t, sampleBookmarks))
	ctx := context.Background()

	if err := reader.Create(ctx, Node{Title: "X"}); !errors.Is(err, ErrPassthroughUnsupported) {
		t.Errorf("create err = %v", err)
	}
	if err := reader.Update(ctx, Node{Title: "X"}); !errors.Is(err, ErrPassthroughUnsupported) {
		t.Errorf("update err = %v", err)
	}
	if err := reader.Remove(ctx, "1"); !errors.Is(err, ErrPassthroughUnsupported) {
		t.Errorf("remove err = %v", err)
	}
}

func TestParseChromeTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"0", time.Time{}},
		{"garbage", time.Time{}},
		{"-5", time.Time{}},
		// 11644473600000000 µs is exactly the Unix epoch.
		{"11644473600000000", time.Unix(0, 0).UTC()},
	}
	for _, tc := range cases {
		if got := parseChromeTime(tc.in); !got.Equal(tc.want) {
			t.Errorf("parseChromeTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
