package sync

import (
	"strings"

	"tubesync/internal/yt"
)

// Criteria is the admission filter applied to candidate videos before
// reconciliation. A zero bound disables that bound; when both are set the
// caller is responsible for min <= max — an inverted range admits nothing.
type Criteria struct {
	ExcludeKeywords    []string
	MinDurationSeconds int
	MaxDurationSeconds int
}

// IsZero reports whether the criteria impose no restriction at all.
func (c Criteria) IsZero() bool {
	return len(c.ExcludeKeywords) == 0 && c.MinDurationSeconds == 0 && c.MaxDurationSeconds == 0
}

// Admits reports whether a video passes the filter: no exclude keyword occurs
// in its title or description (case-insensitive substring match) and its
// duration lies within the configured bounds.
func (c Criteria) Admits(v yt.VideoDetails) bool {
	title := strings.ToLower(v.Title)
	description := strings.ToLower(v.Description)
	for _, kw := range c.ExcludeKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) || strings.Contains(description, kw) {
			return false
		}
	}

	if c.MinDurationSeconds > 0 && v.DurationSeconds < c.MinDurationSeconds {
		return false
	}
	if c.MaxDurationSeconds > 0 && v.DurationSeconds > c.MaxDurationSeconds {
		return false
	}
	return true
}
