package models

// Post is the normalized representation of one feed entry. Posts are
// rebuilt from the upstream feed on every ingestion run and never
// persisted; PlainContent and Preview are always derived from Content.
type Post struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	PlainContent string   `json:"plain_content"`
	Preview      string   `json:"preview"`
	Thumbnail    string   `json:"thumbnail"`
	URL          string   `json:"url"`
	Date         string   `json:"date"`
	Categories   []string `json:"categories"`
}

// DateLayout is the human-facing publish date format.
const DateLayout = "January 02, 2006"

// FallbackPost returns the canned placeholder served when the upstream
// feed is unreachable or unparsable. The read path must always have
// something to render, so this is returned instead of an error.
func FallbackPost() Post {
	return Post{
		ID:           "1",
		Title:        "Master Linux Commands",
		Content:      "<p>Sample content</p>",
		PlainContent: "Sample content",
		Preview:      "Learn essential Linux commands for beginners. Master the terminal...",
		Thumbnail:    "https://via.placeholder.com/400x200/4ade80/0f172a?text=Linux+Tutorial",
		URL:          "#",
		Date:         "January 28, 2024",
		Categories:   []string{"Linux", "Tutorial"},
	}
}

// NotFoundPost returns the placeholder for a single post that could not
// be loaded from either the current feed or the per-entry endpoint.
func NotFoundPost(id string) Post {
	return Post{
		ID:           id,
		Title:        "Post Not Found",
		Content:      "The requested post could not be loaded.",
		PlainContent: "The requested post could not be loaded.",
		Preview:      "The requested post could not be loaded....",
		Thumbnail:    "https://via.placeholder.com/400x200/f59e0b/0f172a?text=Post+Not+Found",
		URL:          "#",
		Date:         "",
		Categories:   []string{"Tech"},
	}
}
