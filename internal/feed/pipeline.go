package feed

import (
	"context"
	"strings"
	"time"

	"github.com/paradiseofgeeks/blogmirror/internal/config"
	"github.com/paradiseofgeeks/blogmirror/internal/logger"
	"github.com/paradiseofgeeks/blogmirror/internal/models"
)

// previewWords is the number of tokens kept in a post preview.
const previewWords = 50

// Pipeline turns the upstream feed into normalized Posts. It runs fresh
// on every call: there is no cross-request post state. Every failure is
// absorbed into fallback content so the read path always has something
// to render, even under total upstream failure.
type Pipeline struct {
	fetcher   *Fetcher
	sanitizer *Sanitizer
	cfg       *config.Config
	now       func() time.Time
}

func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{
		fetcher:   NewFetcher(cfg),
		sanitizer: NewSanitizer(),
		cfg:       cfg,
		now:       time.Now,
	}
}

// FetchPosts fetches and maps the feed, most-recent-first, capped at
// the configured limit. On any fetch or parse failure it returns a
// single-element fallback slice, never an empty slice and never an
// error.
func (p *Pipeline) FetchPosts(ctx context.Context) []models.Post {
	log := logger.Get()
	start := time.Now()

	doc, err := p.fetcher.FetchFeed(ctx)
	if err != nil {
		log.Warn().
			Err(err).
			Str("feed_url", p.cfg.FeedURL()).
			Msg("Feed fetch failed, serving fallback post")
		return []models.Post{models.FallbackPost()}
	}

	entries := doc.Feed.Entry
	if len(entries) > p.cfg.FeedLimit {
		entries = entries[:p.cfg.FeedLimit]
	}

	posts := make([]models.Post, 0, len(entries))
	for _, entry := range entries {
		posts = append(posts, p.mapEntry(entry))
	}

	log.Debug().
		Int("posts", len(posts)).
		Dur("duration", time.Since(start)).
		Msg("Mapped feed entries")

	return posts
}

// FetchPostByID looks the post up in the current feed first, then falls
// back to the single-entry endpoint. Any failure yields the not-found
// placeholder; this never returns an error to the caller.
func (p *Pipeline) FetchPostByID(ctx context.Context, id string) models.Post {
	for _, post := range p.FetchPosts(ctx) {
		if post.ID == id {
			return post
		}
	}

	doc, err := p.fetcher.FetchEntry(ctx, id)
	if err != nil {
		logger.Get().Warn().
			Err(err).
			Str("post_id", id).
			Msg("Entry fetch failed, serving not-found post")
		return models.NotFoundPost(id)
	}

	post := p.mapEntry(doc.Entry)
	post.ID = id
	post.URL = p.cfg.BlogURL + "/" + id
	post.Date = p.now().Format(models.DateLayout)
	return post
}

// mapEntry normalizes one wire entry into a Post, filling every missing
// field with a sane default instead of treating absence as an error.
func (p *Pipeline) mapEntry(entry models.FeedEntry) models.Post {
	title := entry.Title.Value
	if title == "" {
		title = "No Title"
	}

	content := entry.Content.Value
	if content == "" {
		content = entry.Summary.Value
	}

	plain := p.sanitizer.StripToPlainText(content)

	url := p.cfg.BlogURL
	for _, link := range entry.Link {
		if link.Rel == "alternate" {
			if link.Href != "" {
				url = link.Href
			}
			break
		}
	}

	published, err := time.Parse(time.RFC3339, entry.Published.Value)
	if err != nil {
		published = p.now()
	}

	terms := make([]string, 0, len(entry.Category))
	for _, cat := range entry.Category {
		terms = append(terms, cat.Term)
	}

	return models.Post{
		ID:           entryID(entry.ID.Value),
		Title:        title,
		Content:      content,
		PlainContent: plain,
		Preview:      p.sanitizer.Preview(plain, previewWords),
		Thumbnail:    p.sanitizer.ExtractThumbnail(content, title),
		URL:          url,
		Date:         published.Format(models.DateLayout),
		Categories:   Classify(terms, title),
	}
}

// entryID extracts the stable suffix id from a raw Blogger entry id of
// the form "tag:blogger.com,1999:blog-NNN.post-NNN".
func entryID(raw string) string {
	if i := strings.LastIndex(raw, "."); i >= 0 {
		return raw[i+1:]
	}
	return raw
}
