package blogs

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Big O, Explained!", want: "big-o-explained"},
		{title: "  Hello   World  ", want: "hello-world"},
		{title: "ALL CAPS", want: "all-caps"},
		{title: "already-slugged", want: "already-slugged"},
		{title: "100% legit?!", want: "100-legit"},
		{title: "___", want: ""},
		{title: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestNewSlug(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	slug := NewSlug("Big O, Explained!", now)
	assert.Regexp(t, regexp.MustCompile(`^big-o-explained-[0-9a-z]+$`), slug)

	// same title at different instants never collides
	other := NewSlug("Big O, Explained!", now.Add(time.Nanosecond))
	assert.NotEqual(t, slug, other)

	// a title with no usable characters still yields a non-empty slug
	assert.NotEmpty(t, NewSlug("!!!", now))
}
