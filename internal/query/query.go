// Package query provides pagination, search, filtering and related-post
// scoring over the in-memory post collection produced by one ingestion
// run. Everything here is a pure function of its inputs.
package query

import (
	"sort"
	"strings"

	"github.com/paradiseofgeeks/blogmirror/internal/models"
)

// Sort modes accepted by Search.
const (
	SortRelevance = "relevance"
	SortRecent    = "recent"
	SortTitle     = "title"
)

// maxSearchResults caps the search surface.
const maxSearchResults = 12

// Paginate returns the page-th slice of posts (1-based) with perPage
// items per page. An out-of-range page yields an empty slice, never an
// error.
func Paginate(posts []models.Post, page, perPage int) []models.Post {
	if page < 1 || perPage <= 0 {
		return []models.Post{}
	}
	start := (page - 1) * perPage
	if start >= len(posts) {
		return []models.Post{}
	}
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}

// Search filters posts by a case-insensitive substring match against
// title or preview; an empty query matches everything. SortRecent
// compares the formatted date strings lexicographically, which is not
// calendar order — existing behavior, kept deliberately. Results are
// capped at 12.
func Search(posts []models.Post, queryText, sortBy string) []models.Post {
	q := strings.ToLower(strings.TrimSpace(queryText))

	var results []models.Post
	if q == "" {
		results = append(results, posts...)
	} else {
		for _, post := range posts {
			if strings.Contains(strings.ToLower(post.Title), q) ||
				strings.Contains(strings.ToLower(post.Preview), q) {
				results = append(results, post)
			}
		}
	}

	switch sortBy {
	case SortRecent:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Date > results[j].Date
		})
	case SortTitle:
		sort.SliceStable(results, func(i, j int) bool {
			return strings.ToLower(results[i].Title) < strings.ToLower(results[j].Title)
		})
	}

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}

// Related scores every other post by the number of title words it
// shares with the target title and returns the top limit posts with at
// least one shared word, highest score first (ties keep feed order).
// When nothing scores, it falls back to the limit most recent other
// posts so the related section is never empty while other posts exist.
func Related(targetID, targetTitle string, all []models.Post, limit int) []models.Post {
	targetWords := tokenSet(targetTitle)

	type scored struct {
		post  models.Post
		score int
	}
	var related []scored

	for _, post := range all {
		if post.ID == targetID {
			continue
		}
		score := 0
		for word := range tokenSet(post.Title) {
			if targetWords[word] {
				score++
			}
		}
		if score >= 1 {
			related = append(related, scored{post: post, score: score})
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].score > related[j].score
	})
	if len(related) > limit {
		related = related[:limit]
	}

	if len(related) > 0 {
		posts := make([]models.Post, len(related))
		for i, item := range related {
			posts[i] = item.post
		}
		return posts
	}

	// Fallback: most recent others, feed order preserved.
	var fallback []models.Post
	for _, post := range all {
		if post.ID == targetID {
			continue
		}
		fallback = append(fallback, post)
		if len(fallback) == limit {
			break
		}
	}
	return fallback
}

// CategoryCounts tallies how many posts carry each category.
func CategoryCounts(posts []models.Post) map[string]int {
	counts := make(map[string]int)
	for _, post := range posts {
		for _, cat := range post.Categories {
			counts[cat]++
		}
	}
	return counts
}

// FilterByCategory returns the posts carrying the given category,
// matched case-insensitively. An empty category matches everything.
func FilterByCategory(posts []models.Post, category string) []models.Post {
	if category == "" {
		return posts
	}
	target := strings.ToLower(category)

	var filtered []models.Post
	for _, post := range posts {
		for _, cat := range post.Categories {
			if strings.ToLower(cat) == target {
				filtered = append(filtered, post)
				break
			}
		}
	}
	return filtered
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		set[word] = true
	}
	return set
}
