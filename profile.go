package linkbot

import (
	"context"
	"strings"
	"time"
)

// ProfileRecord is one person collected from search results. Fields that
// could not be extracted are empty strings.
type ProfileRecord struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Location       string `json:"location"`
	CurrentCompany string `json:"current_company"`
	ProfileURL     string `json:"profile_url"`
}

// Valid reports whether the record identifies a person: it needs a name or
// a profile URL.
func (r *ProfileRecord) Valid() bool {
	return r.Name != "" || r.ProfileURL != ""
}

// CanonicalProfileURL drops the query string and fragment from a profile
// hyperlink.
func CanonicalProfileURL(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	return strings.TrimSpace(href)
}

// ProfileStore persists records as they are collected. After Append returns
// nil the record is durable.
type ProfileStore interface {
	Append(ctx context.Context, rec *ProfileRecord) error

	// Path returns where the records are written.
	Path() string
}

// ProfileDetails is the content of a single profile page.
type ProfileDetails struct {
	ProfileURL string    `json:"profile_url"`
	Name       string    `json:"name"`
	Headline   string    `json:"headline"`
	Location   string    `json:"location"`
	About      string    `json:"about"` // Markdown
	Experience []string  `json:"experience"`
	ParsedAt   time.Time `json:"parsed_at"`
}

// ProfileWriter persists parsed profile pages, one entry per profile.
// Implementations must be safe for concurrent use.
type ProfileWriter interface {
	WriteProfile(ctx context.Context, d *ProfileDetails) error
}

// ParseProgress reports progress while profile pages are parsed.
type ParseProgress struct {
	URL       string
	Worker    int
	Completed int
	Total     int
	Error     error
}

// ParseProgressFunc is called once per processed profile.
type ParseProgressFunc func(ParseProgress)
