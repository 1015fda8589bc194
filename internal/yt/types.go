package yt

// Channel is one channel search hit.
type Channel struct {
	ID          string
	Title       string
	Description string
}

// ChannelDetails is the metadata shown for a single channel.
type ChannelDetails struct {
	Title       string
	Description string
	Subscribers uint64
}

// Playlist describes one of the authenticated user's playlists.
type Playlist struct {
	ID          string
	Title       string
	Description string
	Privacy     string
}

// VideoDetails carries the fields the admission filter and pruning need.
type VideoDetails struct {
	ID              string
	Title           string
	Description     string
	DurationSeconds int
}

// TrendingVideo is one entry of the most-popular chart.
type TrendingVideo struct {
	ID              string
	Title           string
	ChannelTitle    string
	Views           uint64
	DurationSeconds int
}

// SearchOptions narrows a channel search. Times are RFC 3339 strings as the
// API expects; empty fields are omitted.
type SearchOptions struct {
	Order           string
	PublishedAfter  string
	PublishedBefore string
}
