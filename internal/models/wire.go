package models

// Wire types for the Blogger Atom-in-JSON feed (alt=json). Text values
// arrive as {"$t": "..."} nodes and any field may be absent; zero
// values stand in for missing data so callers never need nil checks.

// TextNode is a Blogger JSON text wrapper.
type TextNode struct {
	Value string `json:"$t"`
}

// FeedLink is one entry of an Atom link list. Rel "alternate" marks the
// canonical post URL.
type FeedLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// FeedCategory is one explicit category term attached to an entry.
type FeedCategory struct {
	Term string `json:"term"`
}

// FeedEntry is one post as it appears on the wire.
type FeedEntry struct {
	ID        TextNode       `json:"id"`
	Title     TextNode       `json:"title"`
	Content   TextNode       `json:"content"`
	Summary   TextNode       `json:"summary"`
	Published TextNode       `json:"published"`
	Link      []FeedLink     `json:"link"`
	Category  []FeedCategory `json:"category"`
}

// FeedDocument is the top-level shape of the full feed endpoint.
type FeedDocument struct {
	Feed struct {
		Entry []FeedEntry `json:"entry"`
	} `json:"feed"`
}

// EntryDocument is the top-level shape of the single-entry endpoint.
type EntryDocument struct {
	Entry FeedEntry `json:"entry"`
}
