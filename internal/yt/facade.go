package yt

import "context"

// Facade presents the client with the tool's user-facing failure behavior:
// every error is logged and degraded to an empty (or partial) result, so
// callers see "nothing found" rather than an error. Code that needs to
// distinguish failures uses Client directly.
type Facade struct {
	client *Client
}

func NewFacade(client *Client) *Facade {
	return &Facade{client: client}
}

func (f *Facade) Client() *Client {
	return f.client
}

func (f *Facade) SearchChannels(ctx context.Context, query string, opts SearchOptions) []Channel {
	channels, err := f.client.SearchChannels(ctx, query, opts)
	if err != nil {
		logAPIError("Channel search failed", err, "query", query)
		return nil
	}
	return channels
}

func (f *Facade) ChannelDetails(ctx context.Context, channelID string) *ChannelDetails {
	details, err := f.client.ChannelDetails(ctx, channelID)
	if err != nil {
		logAPIError("Channel details lookup failed", err, "channel", channelID)
		return nil
	}
	return details
}

func (f *Facade) ChannelVideoIDs(ctx context.Context, channelID string) map[string]struct{} {
	ids, err := f.client.ChannelVideoIDs(ctx, channelID)
	if err != nil {
		logAPIError("Channel videos fetch failed", err, "channel", channelID)
	}
	return ids
}

func (f *Facade) PlaylistVideoIDs(ctx context.Context, playlistID string) map[string]struct{} {
	ids, err := f.client.PlaylistVideoIDs(ctx, playlistID)
	if err != nil {
		logAPIError("Playlist videos fetch failed", err, "playlist", playlistID)
	}
	return ids
}

func (f *Facade) ListPlaylists(ctx context.Context) []Playlist {
	playlists, err := f.client.ListPlaylists(ctx)
	if err != nil {
		logAPIError("Playlist listing failed", err)
	}
	return playlists
}

func (f *Facade) CreatePlaylist(ctx context.Context, title, description, privacy string) string {
	id, err := f.client.CreatePlaylist(ctx, title, description, privacy)
	if err != nil {
		logAPIError("Playlist creation failed", err, "title", title)
		return ""
	}
	return id
}

func (f *Facade) UpdatePlaylist(ctx context.Context, playlistID, title, description, privacy string) bool {
	if err := f.client.UpdatePlaylist(ctx, playlistID, title, description, privacy); err != nil {
		logAPIError("Playlist update failed", err, "playlist", playlistID)
		return false
	}
	return true
}

func (f *Facade) DeletePlaylist(ctx context.Context, playlistID string) bool {
	if err := f.client.DeletePlaylist(ctx, playlistID); err != nil {
		logAPIError("Playlist deletion failed", err, "playlist", playlistID)
		return false
	}
	return true
}

func (f *Facade) EmptyPlaylist(ctx context.Context, playlistID string) int {
	removed, err := f.client.EmptyPlaylist(ctx, playlistID)
	if err != nil {
		logAPIError("Playlist emptying failed", err, "playlist", playlistID)
	}
	return removed
}

func (f *Facade) TrendingVideos(ctx context.Context, region string, maxResults int64) []TrendingVideo {
	videos, err := f.client.TrendingVideos(ctx, region, maxResults)
	if err != nil {
		logAPIError("Trending lookup failed", err, "region", region)
		return nil
	}
	return videos
}
