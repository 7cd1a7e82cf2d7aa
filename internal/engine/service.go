package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sidemark/sidemark/internal/bus"
	"github.com/sidemark/sidemark/internal/classify"
	"github.com/sidemark/sidemark/internal/host"
	"github.com/sidemark/sidemark/internal/storage"
	"github.com/sidemark/sidemark/internal/types"
)

// Service owns the write path to the bookmark, category, and tag
// collections. Every mutating operation reads the whole collection,
// rebuilds it in memory, recomputes aggregates, and writes the complete
// replacement back; nothing ever commits a partial result.
//
// A single mutex serializes the read-modify-write cycles, which gives the
// cooperative single-flow guarantee the store model assumes. Sync passes
// are additionally single-flight: a second concurrent request waits for
// and shares the in-flight pass instead of starting a duplicate.
type Service struct {
	cols         *storage.Collections
	host         host.Reader
	classifier   classify.Classifier
	events       *bus.Bus
	logger       *log.Logger
	autoClassify bool

	mu sync.Mutex // serializes collection read-modify-write cycles

	syncMu   sync.Mutex
	inflight *syncCall
}

type syncCall struct {
	done  chan struct{}
	stats SyncStats
	err   error
}

// Options configures optional Service collaborators.
type Options struct {
	// Classifier enables AI enrichment. Nil disables it entirely.
	Classifier classify.Classifier

	// AutoClassify runs opportunistic enrichment after bookmark creation
	// when the new record is uncategorized.
	AutoClassify bool

	// Bus receives mutation announcements. Nil disables publishing.
	Bus *bus.Bus

	// Logger for engine activity. Nil means a default stderr logger.
	Logger *log.Logger
}

// New creates a Service over the given collections and host reader.
func New(cols *storage.Collections, hostReader host.Reader, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[engine] ", log.LstdFlags)
	}
	return &Service{
		cols:         cols,
		host:         hostReader,
		classifier:   opts.Classifier,
		events:       opts.Bus,
		logger:       logger,
		autoClassify: opts.AutoClassify,
	}
}

// SyncStats summarizes one completed sync pass.
type SyncStats struct {
	Total    int           `json:"total"`
	Added    int           `json:"added"`
	Updated  int           `json:"updated"`
	Removed  int           `json:"removed"`
	Duration time.Duration `json:"duration"`
}

// Sync runs one full reconciliation pass: read the host tree, merge it
// with the persisted records, recompute aggregates, and write everything
// back. If a pass is already in flight the call waits for it and returns
// its result rather than starting a duplicate.
//
// A failed pass leaves the persisted state untouched.
func (s *Service) Sync(ctx context.Context) (SyncStats, error) {
	s.syncMu.Lock()
	if call := s.inflight; call != nil {
		s.syncMu.Unlock()
		<-call.done
		return call.stats, call.err
	}
	call := &syncCall{done: make(chan struct{})}
	s.inflight = call
	s.syncMu.Unlock()

	call.stats, call.err = s.runSync(ctx)

	s.syncMu.Lock()
	s.inflight = nil
	s.syncMu.Unlock()
	close(call.done)

	return call.stats, call.err
}

func (s *Service) runSync(ctx context.Context) (SyncStats, error) {
	start := time.Now()

	// Host read happens outside the store lock: it is the slow external
	// call and needs no store state.
	nodes, err := s.host.ReadTree(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("read host tree: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	priorBookmarks, err := s.cols.Bookmarks(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("load bookmarks: %w", err)
	}
	priorCategories, err := s.cols.Categories(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("load categories: %w", err)
	}
	priorTags, err := s.cols.Tags(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("load tags: %w", err)
	}

	now := time.Now()
	result := Reconcile(nodes, priorBookmarks, priorCategories, now)
	categories := Recount(result.Bookmarks, result.Categories)
	tags := Retag(result.Bookmarks, priorTags, now)

	if err := s.cols.SaveAll(ctx, result.Bookmarks, categories, tags); err != nil {
		return SyncStats{}, fmt.Errorf("write back: %w", err)
	}
	if err := s.cols.SetLastSync(ctx, now); err != nil {
		return SyncStats{}, fmt.Errorf("record sync time: %w", err)
	}

	stats := diffStats(priorBookmarks, result.Bookmarks)
	stats.Duration = time.Since(start)

	s.logger.Printf("sync complete: total=%d added=%d updated=%d removed=%d in %v",
		stats.Total, stats.Added, stats.Updated, stats.Removed, stats.Duration.Round(time.Millisecond))
	s.publish(bus.TopicSyncComplete, stats)
	return stats, nil
}

func diffStats(prior, current []types.Bookmark) SyncStats {
	prevByID := make(map[string]types.Bookmark, len(prior))
	for _, b := range prior {
		prevByID[b.ID] = b
	}
	stats := SyncStats{Total: len(current)}
	currentIDs := make(map[string]bool, len(current))
	for _, b := range current {
		currentIDs[b.ID] = true
		old, ok := prevByID[b.ID]
		switch {
		case !ok:
			stats.Added++
		case !old.UpdatedAt.Equal(b.UpdatedAt):
			stats.Updated++
		}
	}
	for id := range prevByID {
		if !currentIDs[id] {
			stats.Removed++
		}
	}
	return stats
}

// Records returns a read-only snapshot of all three collections for
// projection. Callers must not mutate the returned slices' nested state;
// the projector only derives new structures from them.
func (s *Service) Records(ctx context.Context) ([]types.Bookmark, []types.Category, []types.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookmarks, err := s.cols.Bookmarks(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	categories, err := s.cols.Categories(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	tags, err := s.cols.Tags(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return bookmarks, categories, tags, nil
}

// LastSync reports when the last successful sync pass completed.
func (s *Service) LastSync(ctx context.Context) (time.Time, error) {
	return s.cols.LastSync(ctx)
}

// CreateBookmark validates and stores a new in-app record. The record
// gets a fresh internal ID and no host correlation; a later push to the
// host is best-effort. When auto-classify is enabled and the record lands
// uncategorized, enrichment runs opportunistically afterwards.
func (s *Service) CreateBookmark(ctx context.Context, b types.Bookmark) (types.Bookmark, error) {
	if err := b.Validate(); err != nil {
		return types.Bookmark{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := time.Now()
	b.ID = uuid.New().String()
	b.HostID = ""
	b.HostParentID = ""
	b.HostIndex = 0
	b.CreatedAt = now
	b.UpdatedAt = now
	b.SetDefaults(now)

	err := s.mutate(ctx, func(st *state) error {
		if !st.categoryExists(b.CategoryID) {
			b.CategoryID = types.CategoryUncategorized
		}
		st.bookmarks = append(st.bookmarks, b)
		return nil
	})
	if err != nil {
		return types.Bookmark{}, err
	}

	s.publish(bus.TopicBookmarkAdded, b)
	s.hostMirror("create", func(ctx context.Context) error {
		return s.host.Create(ctx, host.Node{Title: b.Title, URL: b.URL})
	})

	if s.autoClassify && s.classifier != nil && b.CategoryID == types.CategoryUncategorized {
		if err := s.enrich(ctx, b.ID); err != nil {
			// Background enrichment is never a user-facing failure.
			s.logger.Printf("auto-classify %s: %v", b.ID, err)
		}
	}

	return b, nil
}

// UpdateBookmark applies user edits to an existing record. Internal
// identity, host correlation, creation time and visit stats are preserved.
func (s *Service) UpdateBookmark(ctx context.Context, b types.Bookmark) (types.Bookmark, error) {
	if err := b.Validate(); err != nil {
		return types.Bookmark{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var updated types.Bookmark
	err := s.mutate(ctx, func(st *state) error {
		i := st.bookmarkIndex(b.ID)
		if i < 0 {
			return fmt.Errorf("%w: bookmark %s", ErrNotFound, b.ID)
		}
		cur := st.bookmarks[i]
		cur.Title = b.Title
		cur.URL = b.URL
		cur.Description = b.Description
		cur.Favicon = b.Favicon
		if b.CategoryID != "" && st.categoryExists(b.CategoryID) {
			cur.CategoryID = b.CategoryID
		}
		if b.Tags != nil {
			cur.Tags = b.Tags
		}
		cur.UpdatedAt = time.Now()
		st.bookmarks[i] = cur
		updated = cur
		return nil
	})
	if err != nil {
		return types.Bookmark{}, err
	}

	s.publish(bus.TopicBookmarkUpdated, updated)
	if updated.HostID != "" {
		s.hostMirror("update", func(ctx context.Context) error {
			return s.host.Update(ctx, host.Node{
				HostID: updated.HostID,
				Title:  updated.Title,
				URL:    updated.URL,
			})
		})
	}
	return updated, nil
}

// DeleteBookmark removes a record. Host-correlated records are also
// removed from the host, best-effort.
func (s *Service) DeleteBookmark(ctx context.Context, id string) error {
	var removed types.Bookmark
	err := s.mutate(ctx, func(st *state) error {
		i := st.bookmarkIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: bookmark %s", ErrNotFound, id)
		}
		removed = st.bookmarks[i]
		st.bookmarks = append(st.bookmarks[:i], st.bookmarks[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(bus.TopicBookmarkRemoved, removed)
	if removed.HostID != "" {
		s.hostMirror("remove", func(ctx context.Context) error {
			return s.host.Remove(ctx, removed.HostID)
		})
	}
	return nil
}

// Visit records a bookmark visit: bumps the visit count and stamps
// LastVisited. Feeds the "frequent" builtin projection.
func (s *Service) Visit(ctx context.Context, id string) (types.Bookmark, error) {
	var visited types.Bookmark
	err := s.mutate(ctx, func(st *state) error {
		i := st.bookmarkIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: bookmark %s", ErrNotFound, id)
		}
		now := time.Now()
		st.bookmarks[i].VisitCount++
		st.bookmarks[i].LastVisited = &now
		visited = st.bookmarks[i]
		return nil
	})
	if err != nil {
		return types.Bookmark{}, err
	}
	s.publish(bus.TopicBookmarkUpdated, visited)
	return visited, nil
}

// RenameCategory renames a non-builtin category.
func (s *Service) RenameCategory(ctx context.Context, id, name string) error {
	if types.IsBuiltinCategory(id) {
		return fmt.Errorf("%w: %s", ErrBuiltinCategory, id)
	}
	if name == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	err := s.mutate(ctx, func(st *state) error {
		i := st.categoryIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		st.categories[i].Name = name
		st.categories[i].UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(bus.TopicCategoryUpdated, id)
	return nil
}

// DeleteCategory removes a non-builtin category. Its bookmarks are
// reassigned to uncategorized and its child categories reparent to the
// deleted category's parent, so no record is ever left dangling.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if types.IsBuiltinCategory(id) {
		return fmt.Errorf("%w: %s", ErrBuiltinCategory, id)
	}
	err := s.mutate(ctx, func(st *state) error {
		i := st.categoryIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		parent := st.categories[i].ParentID
		st.categories = append(st.categories[:i], st.categories[i+1:]...)

		now := time.Now()
		for j := range st.categories {
			if st.categories[j].ParentID == id {
				st.categories[j].ParentID = parent
				st.categories[j].UpdatedAt = now
			}
		}
		for j := range st.bookmarks {
			if st.bookmarks[j].CategoryID == id {
				st.bookmarks[j].CategoryID = types.CategoryUncategorized
				st.bookmarks[j].UpdatedAt = now
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(bus.TopicCategoryUpdated, id)
	return nil
}

// SetFolderState persists an explicit expand/collapse toggle for a
// category, overriding the display defaults from then on.
func (s *Service) SetFolderState(ctx context.Context, id string, fs types.FolderState) error {
	err := s.mutate(ctx, func(st *state) error {
		i := st.categoryIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		st.categories[i].FolderState = fs
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(bus.TopicCategoryUpdated, id)
	return nil
}

// Classify runs AI analysis for one bookmark at the user's explicit
// request. Unlike background enrichment, failures surface to the caller.
func (s *Service) Classify(ctx context.Context, id string) (types.Bookmark, error) {
	if s.classifier == nil {
		return types.Bookmark{}, fmt.Errorf("%w: no classifier configured", ErrClassification)
	}
	if err := s.enrich(ctx, id); err != nil {
		return types.Bookmark{}, err
	}

	bookmarks, _, _, err := s.Records(ctx)
	if err != nil {
		return types.Bookmark{}, err
	}
	for _, b := range bookmarks {
		if b.ID == id {
			return b, nil
		}
	}
	return types.Bookmark{}, fmt.Errorf("%w: bookmark %s", ErrNotFound, id)
}

// enrich calls the classifier outside the store lock, then re-checks and
// applies the suggestion. The category is only assigned if the bookmark
// is still uncategorized by the time the suggestion arrives.
func (s *Service) enrich(ctx context.Context, id string) error {
	bookmarks, _, _, err := s.Records(ctx)
	if err != nil {
		return err
	}
	var target *types.Bookmark
	for i := range bookmarks {
		if bookmarks[i].ID == id {
			target = &bookmarks[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: bookmark %s", ErrNotFound, id)
	}

	suggestion, err := s.classifier.Classify(ctx, *target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClassification, err)
	}

	return s.mutate(ctx, func(st *state) error {
		i := st.bookmarkIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: bookmark %s", ErrNotFound, id)
		}
		now := time.Now()
		b := st.bookmarks[i]

		meta := classifyMetadata(suggestion)
		b.AI = &meta

		if suggestion.Category != "" && b.CategoryID == types.CategoryUncategorized {
			b.CategoryID = st.resolveAICategory(suggestion.Category, now)
		}
		for _, tag := range suggestion.Tags {
			if tag != "" && !b.HasTag(tag) {
				b.Tags = append(b.Tags, tag)
			}
		}
		b.UpdatedAt = now
		st.bookmarks[i] = b
		st.aiTagNames = append(st.aiTagNames, suggestion.Tags...)
		return nil
	})
}

func classifyMetadata(s classify.Suggestion) types.AIMetadata {
	return types.AIMetadata{
		Category:   s.Category,
		Tags:       s.Tags,
		Summary:    s.Summary,
		Confidence: s.Confidence,
	}
}

// ImportStats summarizes one import pass.
type ImportStats struct {
	Bookmarks  int
	Categories int
	Skipped    int
}

// Import merges externally sourced nodes (e.g. a Netscape HTML export) as
// app-created records. Folders resolve to categories with the same rules
// as a sync pass; leaves whose URL already exists in the store are
// skipped. Imported records carry no host correlation, so they survive
// later syncs.
func (s *Service) Import(ctx context.Context, nodes []host.Node) (ImportStats, error) {
	var stats ImportStats
	err := s.mutate(ctx, func(st *state) error {
		now := time.Now()

		existingURLs := make(map[string]bool, len(st.bookmarks))
		for _, b := range st.bookmarks {
			existingURLs[b.URL] = true
		}
		byKey := make(map[string]string)
		for _, c := range st.categories {
			if !c.Builtin {
				byKey[c.ParentID+"\x00"+c.Name] = c.ID
			}
		}
		folderCat := make(map[string]string)

		for _, n := range nodes {
			if n.IsFolder() {
				parent := folderCat[n.HostParentID]
				key := parent + "\x00" + n.Title
				if id, ok := byKey[key]; ok {
					folderCat[n.HostID] = id
					continue
				}
				cat := types.Category{
					ID:          uuid.New().String(),
					Name:        n.Title,
					ParentID:    parent,
					Order:       n.Index,
					CreatedAt:   now,
					UpdatedAt:   now,
					FolderState: types.FolderCollapsed,
				}
				st.categories = append(st.categories, cat)
				byKey[key] = cat.ID
				folderCat[n.HostID] = cat.ID
				stats.Categories++
				continue
			}

			if existingURLs[n.URL] {
				stats.Skipped++
				continue
			}
			created := n.DateAdded
			if created.IsZero() {
				created = now
			}
			categoryID := folderCat[n.HostParentID]
			if categoryID == "" {
				categoryID = types.CategoryUncategorized
			}
			st.bookmarks = append(st.bookmarks, types.Bookmark{
				ID:         uuid.New().String(),
				Title:      n.Title,
				URL:        n.URL,
				CategoryID: categoryID,
				Tags:       []string{},
				CreatedAt:  created,
				UpdatedAt:  created,
			})
			existingURLs[n.URL] = true
			stats.Bookmarks++
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	s.publish(bus.TopicSyncComplete, stats)
	return stats, nil
}

// state is one in-memory read-modify-write cycle over the collections.
type state struct {
	bookmarks  []types.Bookmark
	categories []types.Category
	tags       []types.Tag

	// aiTagNames marks tag names introduced by a classifier suggestion so
	// their new TagRecords can be flagged as AI-generated.
	aiTagNames []string
}

func (st *state) bookmarkIndex(id string) int {
	for i := range st.bookmarks {
		if st.bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) categoryIndex(id string) int {
	for i := range st.categories {
		if st.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) categoryExists(id string) bool {
	return st.categoryIndex(id) >= 0
}

// resolveAICategory finds a root-level category by name or synthesizes an
// AI-generated one.
func (st *state) resolveAICategory(name string, now time.Time) string {
	for _, c := range st.categories {
		if !c.Builtin && c.ParentID == "" && strings.EqualFold(c.Name, name) {
			return c.ID
		}
	}
	cat := types.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Order:       len(st.categories),
		AIGenerated: true,
		CreatedAt:   now,
		UpdatedAt:   now,
		FolderState: types.FolderCollapsed,
	}
	st.categories = append(st.categories, cat)
	return cat.ID
}

// mutate runs one serialized read-modify-write cycle: load all
// collections, apply fn, recompute aggregates, and write the complete
// replacement sets. An error from fn aborts with nothing written.
func (s *Service) mutate(ctx context.Context, fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &state{}
	var err error
	if st.bookmarks, err = s.cols.Bookmarks(ctx); err != nil {
		return err
	}
	if st.categories, err = s.cols.Categories(ctx); err != nil {
		return err
	}
	if st.tags, err = s.cols.Tags(ctx); err != nil {
		return err
	}

	if err := fn(st); err != nil {
		return err
	}

	now := time.Now()
	categories := Recount(st.bookmarks, st.categories)
	tags := Retag(st.bookmarks, st.tags, now)
	markAITags(tags, st.tags, st.aiTagNames)

	return s.cols.SaveAll(ctx, st.bookmarks, categories, tags)
}

// markAITags flags tag records that were newly created from classifier
// suggestions in this cycle.
func markAITags(tags, prior []types.Tag, aiNames []string) {
	if len(aiNames) == 0 {
		return
	}
	existed := make(map[string]bool, len(prior))
	for _, t := range prior {
		existed[strings.ToLower(t.Name)] = true
	}
	ai := make(map[string]bool, len(aiNames))
	for _, n := range aiNames {
		ai[strings.ToLower(n)] = true
	}
	for i := range tags {
		key := strings.ToLower(tags[i].Name)
		if ai[key] && !existed[key] {
			tags[i].AIGenerated = true
		}
	}
}

// hostMirror runs a best-effort host passthrough. Failures are logged and
// the in-app operation stands; the in-app record is authoritative.
func (s *Service) hostMirror(op string, fn func(context.Context) error) {
	if s.host == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		if errors.Is(err, host.ErrPassthroughUnsupported) {
			return // already logged by the reader
		}
		s.logger.Printf("host %s passthrough failed: %v", op, err)
	}
}

func (s *Service) publish(topic bus.Topic, data any) {
	if s.events == nil {
		return
	}
	s.events.Publish(topic, data)
}
