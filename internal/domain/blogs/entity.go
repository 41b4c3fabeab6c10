package blogs

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ID tipe for Blog
type BlogID string

// Aggregate Root: Blog
//
// Content is the editor's document tree stored verbatim; this service
// never mutates it in place, updates replace the whole value.
type Blog struct {
	ID         BlogID          `json:"id"`
	AuthorID   string          `json:"author_id"`
	AuthorName string          `json:"author_name,omitempty"`
	Title      string          `json:"title"`
	Slug       string          `json:"slug"`
	Content    json.RawMessage `json:"content,omitempty"`
	Tags       []string        `json:"tags"`
	Published  bool            `json:"published"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Slugify lowercases the title, collapses every run of non-alphanumeric
// characters into a single hyphen and trims leading/trailing hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// NewSlug derives the stored slug: slugified title plus a base36 time
// disambiguator so two blogs with the same title never collide.
func NewSlug(title string, now time.Time) string {
	base := Slugify(title)
	suffix := strconv.FormatInt(now.UnixNano(), 36)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
