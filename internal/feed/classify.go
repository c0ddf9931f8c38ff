package feed

import "strings"

// maxCategories bounds the number of topical tags per post.
const maxCategories = 3

// titleKeywords is scanned against the title when the feed carries no
// usable category metadata.
var titleKeywords = []string{"linux", "python", "tutorial", "web", "devops", "ai", "programming", "beginners"}

// Classify derives at most three topical tags for a post. Explicit feed
// category terms win; terms are stripped of surrounding quotes and the
// catch-all "uncategorized"/"general" labels are dropped. When the feed
// yields nothing, a fixed keyword list is matched case-insensitively
// against the title and each hit contributes its capitalized form.
func Classify(terms []string, title string) []string {
	var categories []string

	for _, term := range terms {
		name := strings.Trim(term, `"`)
		if name == "" {
			continue
		}
		switch strings.ToLower(name) {
		case "uncategorized", "general":
			continue
		}
		categories = append(categories, name)
	}

	if len(categories) == 0 {
		lowerTitle := strings.ToLower(title)
		for _, keyword := range titleKeywords {
			if strings.Contains(lowerTitle, keyword) {
				categories = append(categories, capitalize(keyword))
			}
		}
	}

	if len(categories) > maxCategories {
		categories = categories[:maxCategories]
	}
	return categories
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
