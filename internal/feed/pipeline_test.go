package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradiseofgeeks/blogmirror/internal/config"
)

const feedFixture = `{
	"feed": {
		"entry": [
			{
				"id": {"$t": "tag:blogger.com,1999:blog-123.post-111"},
				"title": {"$t": "Linux Shell Basics"},
				"content": {"$t": "<p>Learn the <b>shell</b> today</p><img src=\"https://example.com/shell.png\">"},
				"published": {"$t": "2024-03-10T08:30:00.000Z"},
				"link": [
					{"rel": "self", "href": "https://blog.example.com/feeds/111"},
					{"rel": "alternate", "href": "https://blog.example.com/2024/03/shell.html"}
				],
				"category": [{"term": "Linux"}, {"term": "Tutorial"}]
			},
			{
				"id": {"$t": "tag:blogger.com,1999:blog-123.post-222"},
				"title": {"$t": "Python Web Scraping"},
				"summary": {"$t": "Scrape the web with python"},
				"published": {"$t": "not-a-date"},
				"category": [{"term": "Uncategorized"}]
			},
			{
				"id": {"$t": "post-without-dots"},
				"content": {"$t": ""}
			}
		]
	}
}`

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		BlogURL:     baseURL,
		FeedTimeout: 2 * time.Second,
		FeedLimit:   10,
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestFetchPostsMapsEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, feedFixture)
	}))
	defer server.Close()

	pipeline := NewPipeline(testConfig(t, server.URL))
	posts := pipeline.FetchPosts(context.Background())
	require.Len(t, posts, 3)

	first := posts[0]
	assert.Equal(t, "post-111", first.ID)
	assert.Equal(t, "Linux Shell Basics", first.Title)
	assert.Equal(t, "Learn the shell today", first.PlainContent)
	assert.True(t, strings.HasSuffix(first.Preview, "..."))
	assert.Equal(t, "https://example.com/shell.png", first.Thumbnail)
	assert.Equal(t, "https://blog.example.com/2024/03/shell.html", first.URL)
	assert.Equal(t, "March 10, 2024", first.Date)
	assert.Equal(t, []string{"Linux", "Tutorial"}, first.Categories)

	second := posts[1]
	assert.Equal(t, "post-222", second.ID)
	// Content absent, summary takes over.
	assert.Equal(t, "Scrape the web with python", second.Content)
	// Unparsable date falls back to now's formatted date.
	assert.Equal(t, time.Now().Format("January 02, 2006"), second.Date)
	// Uncategorized is dropped, keyword fallback kicks in.
	assert.Equal(t, []string{"Python", "Web"}, second.Categories)
	// Base URL when no alternate link exists.
	assert.Equal(t, server.URL, second.URL)
	// No image anywhere, placeholder thumbnail.
	assert.Contains(t, second.Thumbnail, "via.placeholder.com")

	third := posts[2]
	assert.Equal(t, "post-without-dots", third.ID)
	assert.Equal(t, "No Title", third.Title)
}

func TestFetchPostsCapsAtFeedLimit(t *testing.T) {
	var entries []string
	for i := 0; i < 15; i++ {
		entries = append(entries, fmt.Sprintf(
			`{"id": {"$t": "blog.post-%d"}, "title": {"$t": "Post %d"}, "published": {"$t": "2024-01-0%dT00:00:00Z"}}`,
			i, i, i%9+1))
	}
	body := `{"feed": {"entry": [` + strings.Join(entries, ",") + `]}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	pipeline := NewPipeline(testConfig(t, server.URL))
	posts := pipeline.FetchPosts(context.Background())
	assert.Len(t, posts, 10)
	assert.Equal(t, "Post 0", posts[0].Title)
}

func TestFetchPostsFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	pipeline := NewPipeline(testConfig(t, server.URL))
	posts := pipeline.FetchPosts(context.Background())

	require.Len(t, posts, 1)
	assert.NotEmpty(t, posts[0].Title)
	assert.NotEmpty(t, posts[0].Thumbnail)
}

func TestFetchPostsFallsBackOnTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	cfg.FeedTimeout = 50 * time.Millisecond

	pipeline := NewPipeline(cfg)
	posts := pipeline.FetchPosts(context.Background())

	require.Len(t, posts, 1)
	assert.NotEmpty(t, posts[0].Title)
}

func TestFetchPostsFallsBackOnMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{not json")
	}))
	defer server.Close()

	pipeline := NewPipeline(testConfig(t, server.URL))
	posts := pipeline.FetchPosts(context.Background())
	require.Len(t, posts, 1)
	assert.NotEmpty(t, posts[0].Title)
}

func TestFetchPostByIDFromFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedFixture)
	}))
	defer server.Close()

	pipeline := NewPipeline(testConfig(t, server.URL))
	post := pipeline.FetchPostByID(context.Background(), "post-222")
	assert.Equal(t, "Python Web Scraping", post.Title)
}

func TestFetchPostByIDSecondaryFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "post-999") {
			fmt.Fprint(w, `{
				"entry": {
					"id": {"$t": "tag:blogger.com,1999:blog-123.post-999"},
					"title": {"$t": "Archived Post"},
					"content": {"$t": "<p>old but gold</p>"}
				}
			}`)
			return
		}
		fmt.Fprint(w, feedFixture)
	}))
	defer server.Close()

	pipeline := NewPipeline(testConfig(t, server.URL))
	post := pipeline.FetchPostByID(context.Background(), "post-999")

	assert.Equal(t, "post-999", post.ID)
	assert.Equal(t, "Archived Post", post.Title)
	assert.Equal(t, "old but gold", post.PlainContent)
	assert.Equal(t, server.URL+"/post-999", post.URL)
}

func TestFetchPostByIDNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, feedFixture)
	}))
	defer server.Close()

	pipeline := NewPipeline(testConfig(t, server.URL))
	post := pipeline.FetchPostByID(context.Background(), "missing")

	assert.Equal(t, "missing", post.ID)
	assert.Equal(t, "Post Not Found", post.Title)
	assert.NotEmpty(t, post.Thumbnail)
}

func TestEntryID(t *testing.T) {
	assert.Equal(t, "post-456", entryID("tag:blogger.com,1999:blog-123.post-456"))
	assert.Equal(t, "raw", entryID("raw"))
	assert.Equal(t, "", entryID(""))
}
