// Package yt wraps the YouTube Data API v3 behind typed operations. Client
// returns errors and partial results; Facade layers the log-and-return-empty
// behavior the CLI presents to the user.
//
// Paginated operations wait on a shared one-request-per-second limiter between
// pages to stay under the API's rate limits.
package yt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"

	"tubesync/pkg/isoduration"
)

const (
	// pageSize is the API maximum for list pagination.
	pageSize = 50
	// lookupChunkSize is the API maximum for multi-ID video lookups.
	lookupChunkSize = 50
	// maxSearchResults caps channel search hits.
	maxSearchResults = 10
)

// ErrQuotaExceeded marks failures caused by API quota exhaustion.
var ErrQuotaExceeded = errors.New("api quota exceeded")

// ErrNotFound marks lookups of channels or playlists that do not exist.
var ErrNotFound = errors.New("not found")

type Client struct {
	svc     *youtube.Service
	limiter *rate.Limiter
}

func NewClient(svc *youtube.Service) *Client {
	return &Client{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SearchChannels returns up to ten channels matching the query.
func (c *Client) SearchChannels(ctx context.Context, query string, opts SearchOptions) ([]Channel, error) {
	call := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(maxSearchResults).
		Context(ctx)
	if opts.Order != "" {
		call = call.Order(opts.Order)
	}
	if opts.PublishedAfter != "" {
		call = call.PublishedAfter(opts.PublishedAfter)
	}
	if opts.PublishedBefore != "" {
		call = call.PublishedBefore(opts.PublishedBefore)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, wrapAPIError("search channels", err)
	}

	var channels []Channel
	for _, it := range resp.Items {
		if it.Id == nil || it.Id.Kind != "youtube#channel" || it.Id.ChannelId == "" {
			continue
		}
		ch := Channel{ID: it.Id.ChannelId}
		if it.Snippet != nil {
			ch.Title = it.Snippet.Title
			ch.Description = it.Snippet.Description
		}
		channels = append(channels, ch)
	}
	slog.Info("Channel search complete", "query", query, "found", len(channels))
	return channels, nil
}

// ChannelDetails returns title, description and subscriber count for one
// channel, or ErrNotFound.
func (c *Client) ChannelDetails(ctx context.Context, channelID string) (*ChannelDetails, error) {
	resp, err := c.svc.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapAPIError("channel details", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}

	item := resp.Items[0]
	details := &ChannelDetails{}
	if item.Snippet != nil {
		details.Title = item.Snippet.Title
		details.Description = item.Snippet.Description
	}
	if item.Statistics != nil {
		details.Subscribers = item.Statistics.SubscriberCount
	}
	return details, nil
}

// ChannelVideoIDs collects every video ID in the channel's uploads playlist.
// The returned set holds whatever was gathered before any error.
func (c *Client) ChannelVideoIDs(ctx context.Context, channelID string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	uploads, err := c.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return ids, err
	}

	if err := c.eachPlaylistPage(ctx, uploads, []string{"contentDetails"}, func(items []*youtube.PlaylistItem) {
		for _, it := range items {
			if it.ContentDetails != nil && it.ContentDetails.VideoId != "" {
				ids[it.ContentDetails.VideoId] = struct{}{}
			}
		}
	}); err != nil {
		return ids, err
	}

	slog.Info("Channel uploads fetched", "channel", channelID, "videos", len(ids))
	return ids, nil
}

// PlaylistVideoIDs collects the video IDs currently in the playlist. The
// returned set holds whatever was gathered before any error.
func (c *Client) PlaylistVideoIDs(ctx context.Context, playlistID string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	if err := c.eachPlaylistPage(ctx, playlistID, []string{"contentDetails"}, func(items []*youtube.PlaylistItem) {
		for _, it := range items {
			if it.ContentDetails != nil && it.ContentDetails.VideoId != "" {
				ids[it.ContentDetails.VideoId] = struct{}{}
			}
		}
	}); err != nil {
		return ids, err
	}

	slog.Info("Playlist membership fetched", "playlist", playlistID, "videos", len(ids))
	return ids, nil
}

// PlaylistItemRefs maps each video ID in the playlist to its playlist-item ID,
// the identifier a deletion needs.
func (c *Client) PlaylistItemRefs(ctx context.Context, playlistID string) (map[string]string, error) {
	refs := make(map[string]string)

	if err := c.eachPlaylistPage(ctx, playlistID, []string{"id", "contentDetails"}, func(items []*youtube.PlaylistItem) {
		for _, it := range items {
			if it.ContentDetails != nil && it.ContentDetails.VideoId != "" {
				refs[it.ContentDetails.VideoId] = it.Id
			}
		}
	}); err != nil {
		return refs, err
	}

	return refs, nil
}

// VideoDetails looks up title, description and duration for the given IDs in
// chunks of at most fifty. A failed chunk is logged and its videos dropped
// from the result; only context errors abort the whole lookup.
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]VideoDetails, error) {
	var out []VideoDetails

	for start := 0; start < len(ids); start += lookupChunkSize {
		end := min(start+lookupChunkSize, len(ids))
		chunk := ids[start:end]

		if start > 0 {
			if err := c.limiter.Wait(ctx); err != nil {
				return out, err
			}
		}

		resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails"}).
			Id(chunk...).
			Context(ctx).
			Do()
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			logAPIError("Video lookup failed, dropping chunk", wrapAPIError("video details", err), "chunk_size", len(chunk))
			continue
		}

		for _, it := range resp.Items {
			d := VideoDetails{ID: it.Id}
			if it.Snippet != nil {
				d.Title = it.Snippet.Title
				d.Description = it.Snippet.Description
			}
			if it.ContentDetails != nil {
				d.DurationSeconds = isoduration.Seconds(it.ContentDetails.Duration)
			}
			out = append(out, d)
		}
	}

	return out, nil
}

// ListPlaylists returns the authenticated user's playlists.
func (c *Client) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	var playlists []Playlist
	pageToken := ""

	for {
		call := c.svc.Playlists.List([]string{"snippet", "status"}).
			Mine(true).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			if err := c.limiter.Wait(ctx); err != nil {
				return playlists, err
			}
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return playlists, wrapAPIError("list playlists", err)
		}

		for _, it := range resp.Items {
			p := Playlist{ID: it.Id}
			if it.Snippet != nil {
				p.Title = it.Snippet.Title
				p.Description = it.Snippet.Description
			}
			if it.Status != nil {
				p.Privacy = it.Status.PrivacyStatus
			}
			playlists = append(playlists, p)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return playlists, nil
		}
	}
}

// CreatePlaylist creates a playlist and returns its ID.
func (c *Client) CreatePlaylist(ctx context.Context, title, description, privacy string) (string, error) {
	playlist := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{
			Title:       title,
			Description: description,
		},
		Status: &youtube.PlaylistStatus{PrivacyStatus: privacy},
	}

	resp, err := c.svc.Playlists.Insert([]string{"snippet", "status"}, playlist).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapAPIError("create playlist", err)
	}
	slog.Info("Playlist created", "playlist", resp.Id, "title", title)
	return resp.Id, nil
}

// UpdatePlaylist replaces a playlist's title, description and privacy status.
func (c *Client) UpdatePlaylist(ctx context.Context, playlistID, title, description, privacy string) error {
	playlist := &youtube.Playlist{
		Id: playlistID,
		Snippet: &youtube.PlaylistSnippet{
			Title:       title,
			Description: description,
		},
		Status: &youtube.PlaylistStatus{PrivacyStatus: privacy},
	}

	if _, err := c.svc.Playlists.Update([]string{"snippet", "status"}, playlist).
		Context(ctx).
		Do(); err != nil {
		return wrapAPIError("update playlist", err)
	}
	slog.Info("Playlist updated", "playlist", playlistID)
	return nil
}

// DeletePlaylist removes a playlist entirely.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	if err := c.svc.Playlists.Delete(playlistID).Context(ctx).Do(); err != nil {
		return wrapAPIError("delete playlist", err)
	}
	slog.Info("Playlist deleted", "playlist", playlistID)
	return nil
}

// EmptyPlaylist deletes every item in the playlist and returns how many were
// removed. Individual delete failures are logged and skipped.
func (c *Client) EmptyPlaylist(ctx context.Context, playlistID string) (int, error) {
	removed := 0

	for {
		// Always fetch the first page: deletions shift subsequent pages.
		resp, err := c.svc.PlaylistItems.List([]string{"id"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx).
			Do()
		if err != nil {
			return removed, wrapAPIError("empty playlist", err)
		}
		if len(resp.Items) == 0 {
			slog.Info("Playlist emptied", "playlist", playlistID, "removed", removed)
			return removed, nil
		}

		for _, it := range resp.Items {
			if err := c.DeletePlaylistItem(ctx, it.Id); err != nil {
				logAPIError("Failed to delete playlist item", err, "item", it.Id)
				continue
			}
			removed++
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return removed, err
		}
	}
}

// InsertPlaylistItem appends one video to the playlist.
func (c *Client) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error {
	item := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: videoID,
			},
		},
	}

	if _, err := c.svc.PlaylistItems.Insert([]string{"snippet"}, item).
		Context(ctx).
		Do(); err != nil {
		return wrapAPIError("insert playlist item", err)
	}
	return nil
}

// DeletePlaylistItem removes one occurrence of a video from a playlist by its
// playlist-item ID.
func (c *Client) DeletePlaylistItem(ctx context.Context, itemID string) error {
	if err := c.svc.PlaylistItems.Delete(itemID).Context(ctx).Do(); err != nil {
		return wrapAPIError("delete playlist item", err)
	}
	return nil
}

// TrendingVideos returns the most-popular chart for a region.
func (c *Client) TrendingVideos(ctx context.Context, region string, maxResults int64) ([]TrendingVideo, error) {
	resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Chart("mostPopular").
		RegionCode(region).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapAPIError("trending videos", err)
	}

	var videos []TrendingVideo
	for _, it := range resp.Items {
		v := TrendingVideo{ID: it.Id}
		if it.Snippet != nil {
			v.Title = it.Snippet.Title
			v.ChannelTitle = it.Snippet.ChannelTitle
		}
		if it.Statistics != nil {
			v.Views = it.Statistics.ViewCount
		}
		if it.ContentDetails != nil {
			v.DurationSeconds = isoduration.Seconds(it.ContentDetails.Duration)
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// uploadsPlaylistID resolves the channel's uploads playlist.
func (c *Client) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	resp, err := c.svc.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapAPIError("resolve uploads playlist", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil ||
		resp.Items[0].ContentDetails.RelatedPlaylists == nil {
		return "", fmt.Errorf("channel %s uploads: %w", channelID, ErrNotFound)
	}
	return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

// eachPlaylistPage walks a playlist page by page, pacing between pages.
func (c *Client) eachPlaylistPage(ctx context.Context, playlistID string, parts []string, visit func([]*youtube.PlaylistItem)) error {
	pageToken := ""

	for {
		call := c.svc.PlaylistItems.List(parts).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return wrapAPIError("list playlist items", err)
		}

		visit(resp.Items)

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return nil
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
}

// wrapAPIError tags the operation and surfaces quota exhaustion as a typed
// sentinel, detected from the error payload's reason codes.
func wrapAPIError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		for _, item := range gerr.Errors {
			if item.Reason == "quotaExceeded" || item.Reason == "dailyLimitExceeded" {
				return fmt.Errorf("%s: %w", op, ErrQuotaExceeded)
			}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func logAPIError(msg string, err error, args ...any) {
	if errors.Is(err, ErrQuotaExceeded) {
		slog.Error("API quota exceeded", args...)
		return
	}
	slog.Error(msg, append([]any{"error", err}, args...)...)
}
