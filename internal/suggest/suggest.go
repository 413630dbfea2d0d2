// Package suggest derives advisory metadata (tags, category,
// description) for a bookmark from its URL and title. Suggestions
// never touch stored state; callers are free to discard them.
package suggest

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/linkhaven/linkhaven/internal/domain"
)

// Suggestion is the advisory result for one URL.
type Suggestion struct {
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

// Suggester produces metadata suggestions for a bookmark draft.
type Suggester interface {
	Suggest(ctx context.Context, rawURL, title string) (Suggestion, error)
}

// Heuristic is a local suggester working off the URL host and path
// tokens plus the title. No network calls.
type Heuristic struct{}

var _ Suggester = Heuristic{}

// categoryByKeyword maps well-known host fragments to a category.
var categoryByKeyword = map[string]string{
	"github":        "Development",
	"gitlab":        "Development",
	"stackoverflow": "Development",
	"npmjs":         "Development",
	"pkg":           "Development",
	"youtube":       "Video",
	"vimeo":         "Video",
	"twitch":        "Video",
	"spotify":       "Music",
	"soundcloud":    "Music",
	"medium":        "Reading",
	"substack":      "Reading",
	"wikipedia":     "Reading",
	"reddit":        "Social",
	"twitter":       "Social",
	"linkedin":      "Social",
	"mastodon":      "Social",
	"amazon":        "Shopping",
	"ebay":          "Shopping",
	"etsy":          "Shopping",
	"coursera":      "Learning",
	"udemy":         "Learning",
	"edx":           "Learning",
	"arxiv":         "Research",
	"docs":          "Documentation",
}

// Suggest tokenizes host and path, picks a category from known host
// keywords and proposes up to five tags.
func (Heuristic) Suggest(_ context.Context, rawURL, title string) (Suggestion, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return Suggestion{}, fmt.Errorf("cannot suggest for unparseable url %q", rawURL)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	tokens := hostTokens(host)
	tokens = append(tokens, pathTokens(u.Path)...)

	category := domain.DefaultCategory
	for _, token := range tokens {
		if c, ok := categoryByKeyword[token]; ok {
			category = c
			break
		}
	}

	tags := pickTags(tokens, title)

	description := strings.TrimSpace(title)
	if description == "" {
		description = host
	} else {
		description = description + " (" + host + ")"
	}

	return Suggestion{
		Tags:        tags,
		Category:    category,
		Description: description,
	}, nil
}

// hostTokens splits a hostname into labels, dropping the TLD.
func hostTokens(host string) []string {
	parts := strings.Split(host, ".")
	if len(parts) > 1 {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// pathTokens splits the URL path on separators and keeps short
// word-like segments.
func pathTokens(path string) []string {
	fields := strings.FieldsFunc(strings.ToLower(path), func(r rune) bool {
		return r == '/' || r == '-' || r == '_' || r == '.'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 || len(f) > 24 || !isWord(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isWord(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// pickTags dedupes and normalizes up to five candidate tags, title
// words included.
func pickTags(tokens []string, title string) []string {
	candidates := append([]string(nil), tokens...)
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if len(w) >= 4 && isWord(w) {
			candidates = append(candidates, w)
		}
	}

	seen := make(map[string]bool, len(candidates))
	tags := make([]string, 0, 5)
	for _, c := range candidates {
		tag := domain.NormalizeTag(c)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == 5 {
			break
		}
	}
	sort.Strings(tags)
	return tags
}
