package feed

import (
	"fmt"
	"hash/fnv"
	"html"
	"regexp"
	"strings"
)

// placeholderColors is the fixed palette for generated thumbnails. The
// color for a title is a pure function of the title text, so the same
// post always renders the same placeholder.
var placeholderColors = []string{"4ade80", "38bdf8", "f472b6", "f59e0b", "8b5cf6"}

// Sanitizer handles cleaning raw post HTML and extracting images from
// it. It is pattern based, not a real HTML parser: malformed markup
// degrades to best-effort text instead of a parse error, which is the
// behavior the read path depends on.
type Sanitizer struct {
	htmlTag   *regexp.Regexp
	imgTag    *regexp.Regexp
	cdnImage  *regexp.Regexp
	dqImage   *regexp.Regexp
	sqImage   *regexp.Regexp
	scriptTag *regexp.Regexp
	styleTag  *regexp.Regexp
	divOpen   *regexp.Regexp
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		htmlTag:   regexp.MustCompile(`<[^>]+>`),
		imgTag:    regexp.MustCompile(`<img[^>]+src="([^">]+)"`),
		cdnImage:  regexp.MustCompile(`(?i)https://[^"\s]*blogger\.googleusercontent\.com[^"\s]*=w\d+-h\d+`),
		dqImage:   regexp.MustCompile(`(?i)src="(https://[^"]+\.(?:jpg|jpeg|png|gif|webp))"`),
		sqImage:   regexp.MustCompile(`(?i)src='(https://[^']+\.(?:jpg|jpeg|png|gif|webp))'`),
		scriptTag: regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		styleTag:  regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		divOpen:   regexp.MustCompile(`<div[^>]*>`),
	}
}

// StripToPlainText removes all tag markup, decodes HTML entities and
// collapses whitespace runs. Empty input returns the empty string.
func (s *Sanitizer) StripToPlainText(input string) string {
	if input == "" {
		return ""
	}
	cleaned := s.htmlTag.ReplaceAllString(input, " ")
	cleaned = html.UnescapeString(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.TrimSpace(cleaned)
}

// Preview returns the first maxWords whitespace-delimited tokens of the
// given plain text, suffixed with an ellipsis.
func (s *Sanitizer) Preview(plain string, maxWords int) string {
	words := strings.Fields(plain)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ") + "..."
}

// SanitizeHTML cleans post HTML for display while keeping safe markup:
// <br> variants become newlines, script and style blocks are removed,
// divs become paragraphs, whitespace is collapsed and entities decoded.
// Any internal failure falls back to a naive strip truncated to 500
// bytes with an ellipsis marker rather than surfacing an error.
func (s *Sanitizer) SanitizeHTML(input string) (out string) {
	if input == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			out = s.naiveStrip(input)
		}
	}()

	cleaned := strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n").Replace(input)
	cleaned = s.scriptTag.ReplaceAllString(cleaned, "")
	cleaned = s.styleTag.ReplaceAllString(cleaned, "")
	cleaned = s.divOpen.ReplaceAllString(cleaned, "<p>")
	cleaned = strings.ReplaceAll(cleaned, "</div>", "</p>")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = html.UnescapeString(cleaned)

	return strings.TrimSpace(cleaned)
}

// naiveStrip is the last-resort cleanup path: strip every tag and cut
// the result to a fixed length.
func (s *Sanitizer) naiveStrip(input string) string {
	stripped := s.htmlTag.ReplaceAllString(input, " ")
	if len(stripped) > 500 {
		stripped = stripped[:500]
	}
	return stripped + "..."
}

// ExtractFirstImage returns the src attribute of the first <img> tag,
// if any.
func (s *Sanitizer) ExtractFirstImage(input string) (string, bool) {
	if input == "" {
		return "", false
	}
	match := s.imgTag.FindStringSubmatch(input)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// ExtractThumbnail finds a thumbnail URL for a post. It tries the
// Blogger CDN sizing pattern first, then quoted image srcs, and falls
// back to a deterministic placeholder keyed by the title.
func (s *Sanitizer) ExtractThumbnail(content, title string) string {
	if match := s.cdnImage.FindString(content); match != "" {
		return match
	}
	if match := s.dqImage.FindStringSubmatch(content); match != nil {
		return match[1]
	}
	if match := s.sqImage.FindStringSubmatch(content); match != nil {
		return match[1]
	}
	return PlaceholderImage(title)
}

// PlaceholderImage synthesizes a placeholder thumbnail URL for a title.
// The color is drawn from a fixed palette indexed by a stable hash of
// the title, and the first 15 characters of the title are embedded as
// placeholder text.
func PlaceholderImage(title string) string {
	h := fnv.New32a()
	h.Write([]byte(title))
	color := placeholderColors[int(h.Sum32())%len(placeholderColors)]

	runes := []rune(title)
	if len(runes) > 15 {
		runes = runes[:15]
	}
	text := strings.ReplaceAll(string(runes), " ", "+")

	return fmt.Sprintf("https://via.placeholder.com/400x200/%s/0f172a?text=%s", color, text)
}
