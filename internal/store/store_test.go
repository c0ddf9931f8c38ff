package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestPageViewCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	views, err := s.PageViews(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), views)

	const n = 7
	for i := 0; i < n; i++ {
		require.NoError(t, s.IncrementPageView(ctx))
	}

	views, err = s.PageViews(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), views)
}

func TestCounterSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blog.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.IncrementPageView(ctx))
	require.NoError(t, s.Close())

	// Reopening must not re-seed the counter row.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	views, err := s.PageViews(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), views)
}

func TestRecordContactValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		contact Contact
	}{
		{"missing name", Contact{Name: "", Email: "a@b.com", Message: "hi"}},
		{"missing email", Contact{Name: "A", Email: "", Message: "hi"}},
		{"missing message", Contact{Name: "A", Email: "a@b.com", Message: ""}},
		{"whitespace-only name", Contact{Name: "   ", Email: "a@b.com", Message: "hi"}},
		{"email without at sign", Contact{Name: "A", Email: "a.b.com", Message: "hi"}},
		{"email without dot", Contact{Name: "A", Email: "a@bcom", Message: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.RecordContact(ctx, tt.contact)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// Nothing was written.
	contacts, err := s.Contacts(ctx)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestRecordContactSuccess(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordContact(ctx, Contact{Name: "A", Email: "a@b.com", Message: "hi"}))
	require.NoError(t, s.RecordContact(ctx, Contact{Name: "B", Email: "b@c.org", Message: "hello"}))

	contacts, err := s.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	// Newest first.
	assert.Equal(t, "B", contacts[0].Name)
	assert.Equal(t, "A", contacts[1].Name)
	assert.Equal(t, "a@b.com", contacts[1].Email)
	assert.NotEmpty(t, contacts[0].CreatedAt)
}

func TestRecordContactTrimsWhitespace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordContact(ctx, Contact{Name: "  A  ", Email: " a@b.com ", Message: " hi "}))

	contacts, err := s.Contacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "A", contacts[0].Name)
	assert.Equal(t, "a@b.com", contacts[0].Email)
	assert.Equal(t, "hi", contacts[0].Message)
}

func TestDailySummary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	view := func(postID, title, ip string) Event {
		return Event{
			Type:      "view_post",
			Data:      map[string]any{"event": "view_post", "post_id": postID, "post_title": title},
			PageURL:   "https://blog.example.com/post/" + postID,
			UserAgent: "test-agent",
			IPAddress: ip,
		}
	}

	require.NoError(t, s.RecordEvent(ctx, Event{Type: "page_view", IPAddress: "10.0.0.1"}))
	require.NoError(t, s.RecordEvent(ctx, Event{Type: "page_view", IPAddress: "10.0.0.2"}))
	require.NoError(t, s.RecordEvent(ctx, view("p1", "First Post", "10.0.0.1")))
	require.NoError(t, s.RecordEvent(ctx, view("p1", "First Post", "10.0.0.3")))
	require.NoError(t, s.RecordEvent(ctx, view("p2", "Second Post", "10.0.0.1")))

	summary, err := s.DailySummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(5), summary.TotalVisits)
	assert.Equal(t, int64(3), summary.UniqueVisitors)
	assert.Equal(t, int64(2), summary.PageViews)
	assert.Equal(t, int64(3), summary.PostViews)

	require.Len(t, summary.TopPosts, 2)
	assert.Equal(t, "First Post", summary.TopPosts[0].Title)
	assert.Equal(t, int64(2), summary.TopPosts[0].Views)
	assert.Equal(t, "Second Post", summary.TopPosts[1].Title)
	assert.Equal(t, int64(1), summary.TopPosts[1].Views)
}

func TestDailySummaryEmpty(t *testing.T) {
	s := openTestStore(t)

	summary, err := s.DailySummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.TotalVisits)
	assert.Equal(t, int64(0), summary.UniqueVisitors)
	assert.Empty(t, summary.TopPosts)
}

func TestRecordEventPayloadIsQueryable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordEvent(ctx, Event{
		Type:      "view_post",
		Data:      map[string]any{"post_id": "p9", "post_title": "Payload Post"},
		IPAddress: "10.0.0.9",
	}))

	summary, err := s.DailySummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary.TopPosts, 1)
	assert.Equal(t, "Payload Post", summary.TopPosts[0].Title)
}
