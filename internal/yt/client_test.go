package yt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// newTestClient builds a Client whose service talks to the given handler,
// with pagination pacing disabled.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := youtube.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("youtube.NewService() error = %v", err)
	}

	c := NewClient(svc)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func quotaExceededBody() string {
	return `{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded","message":"quota"}]}}`
}

func TestSearchChannelsFiltersNonChannelHits(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "search") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("type"); got != "channel" {
			t.Errorf("type = %q, want channel", got)
		}
		fmt.Fprint(w, `{
			"items": [
				{"id": {"kind": "youtube#channel", "channelId": "ch1"}, "snippet": {"title": "Chan One", "description": "first"}},
				{"id": {"kind": "youtube#video", "videoId": "v1"}, "snippet": {"title": "Not a channel"}},
				{"id": {"kind": "youtube#channel"}, "snippet": {"title": "No ID"}}
			]
		}`)
	}))

	channels, err := c.SearchChannels(context.Background(), "test", SearchOptions{Order: "relevance"})
	if err != nil {
		t.Fatalf("SearchChannels() error = %v", err)
	}
	if len(channels) != 1 {
		t.Fatalf("got %d channels, want 1", len(channels))
	}
	if channels[0].ID != "ch1" || channels[0].Title != "Chan One" {
		t.Errorf("channel = %+v, want ch1/Chan One", channels[0])
	}
}

func TestSearchChannelsQuotaExceeded(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, quotaExceededBody())
	}))

	_, err := c.SearchChannels(context.Background(), "test", SearchOptions{})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("error = %v, want ErrQuotaExceeded", err)
	}
}

func TestChannelDetails(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{"snippet": {"title": "My Channel", "description": "about"}, "statistics": {"subscriberCount": "1234"}}
			]
		}`)
	}))

	details, err := c.ChannelDetails(context.Background(), "ch1")
	if err != nil {
		t.Fatalf("ChannelDetails() error = %v", err)
	}
	if details.Title != "My Channel" {
		t.Errorf("Title = %q, want %q", details.Title, "My Channel")
	}
	if details.Subscribers != 1234 {
		t.Errorf("Subscribers = %d, want 1234", details.Subscribers)
	}
}

func TestChannelDetailsNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))

	_, err := c.ChannelDetails(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestChannelVideoIDsPaginates(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "channels"):
			fmt.Fprint(w, `{"items": [{"contentDetails": {"relatedPlaylists": {"uploads": "UPLOADS"}}}]}`)
		case strings.Contains(r.URL.Path, "playlistItems"):
			if got := r.URL.Query().Get("playlistId"); got != "UPLOADS" {
				t.Errorf("playlistId = %q, want UPLOADS", got)
			}
			if r.URL.Query().Get("pageToken") == "" {
				fmt.Fprint(w, `{
					"items": [{"contentDetails": {"videoId": "v1"}}, {"contentDetails": {"videoId": "v2"}}],
					"nextPageToken": "page2"
				}`)
			} else {
				fmt.Fprint(w, `{"items": [{"contentDetails": {"videoId": "v3"}}]}`)
			}
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))

	ids, err := c.ChannelVideoIDs(context.Background(), "ch1")
	if err != nil {
		t.Fatalf("ChannelVideoIDs() error = %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("got %d IDs, want 3", len(ids))
	}
	for _, want := range []string{"v1", "v2", "v3"} {
		if _, ok := ids[want]; !ok {
			t.Errorf("missing video ID %q", want)
		}
	}
}

func TestChannelVideoIDsPartialOnError(t *testing.T) {
	page := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "channels"):
			fmt.Fprint(w, `{"items": [{"contentDetails": {"relatedPlaylists": {"uploads": "UPLOADS"}}}]}`)
		case strings.Contains(r.URL.Path, "playlistItems"):
			page++
			if page == 1 {
				fmt.Fprint(w, `{"items": [{"contentDetails": {"videoId": "v1"}}], "nextPageToken": "page2"}`)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": {"code": 500, "message": "boom"}}`)
		}
	}))

	ids, err := c.ChannelVideoIDs(context.Background(), "ch1")
	if err == nil {
		t.Fatal("ChannelVideoIDs() expected error")
	}
	if _, ok := ids["v1"]; !ok {
		t.Error("partial result should include the first page")
	}
}

func TestPlaylistItemRefs(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{"id": "item1", "contentDetails": {"videoId": "v1"}},
				{"id": "item2", "contentDetails": {"videoId": "v2"}}
			]
		}`)
	}))

	refs, err := c.PlaylistItemRefs(context.Background(), "pl1")
	if err != nil {
		t.Fatalf("PlaylistItemRefs() error = %v", err)
	}
	if refs["v1"] != "item1" || refs["v2"] != "item2" {
		t.Errorf("refs = %v, want v1->item1 v2->item2", refs)
	}
}

func TestVideoDetailsChunksAndDropsFailures(t *testing.T) {
	call := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call++
		ids := r.URL.Query()["id"]
		if len(ids) > 50 {
			t.Errorf("chunk size = %d, want <= 50", len(ids))
		}
		if call == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": {"code": 500, "message": "boom"}}`)
			return
		}
		var items []string
		for _, id := range ids {
			items = append(items, fmt.Sprintf(
				`{"id": %q, "snippet": {"title": "t-%s", "description": ""}, "contentDetails": {"duration": "PT10M"}}`,
				id, id))
		}
		fmt.Fprintf(w, `{"items": [%s]}`, strings.Join(items, ","))
	}))

	ids := make([]string, 60)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%02d", i)
	}

	details, err := c.VideoDetails(context.Background(), ids)
	if err != nil {
		t.Fatalf("VideoDetails() error = %v", err)
	}
	// First chunk of 50 failed and was dropped; only the trailing 10 remain.
	if len(details) != 10 {
		t.Fatalf("got %d details, want 10", len(details))
	}
	if details[0].DurationSeconds != 600 {
		t.Errorf("DurationSeconds = %d, want 600", details[0].DurationSeconds)
	}
	if call != 2 {
		t.Errorf("API calls = %d, want 2", call)
	}
}

func TestCreatePlaylist(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		fmt.Fprint(w, `{"id": "newpl"}`)
	}))

	id, err := c.CreatePlaylist(context.Background(), "Title", "Desc", "private")
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}
	if id != "newpl" {
		t.Errorf("id = %q, want %q", id, "newpl")
	}
}

func TestListPlaylists(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("mine"); got != "true" {
			t.Errorf("mine = %q, want true", got)
		}
		fmt.Fprint(w, `{
			"items": [
				{"id": "pl1", "snippet": {"title": "Watch later-er", "description": "d"}, "status": {"privacyStatus": "private"}}
			]
		}`)
	}))

	playlists, err := c.ListPlaylists(context.Background())
	if err != nil {
		t.Fatalf("ListPlaylists() error = %v", err)
	}
	if len(playlists) != 1 || playlists[0].Privacy != "private" {
		t.Errorf("playlists = %+v, want one private entry", playlists)
	}
}

func TestEmptyPlaylist(t *testing.T) {
	listCalls := 0
	var deleted []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = append(deleted, r.URL.Query().Get("id"))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		listCalls++
		if listCalls == 1 {
			fmt.Fprint(w, `{"items": [{"id": "item1"}, {"id": "item2"}]}`)
			return
		}
		fmt.Fprint(w, `{"items": []}`)
	}))

	removed, err := c.EmptyPlaylist(context.Background(), "pl1")
	if err != nil {
		t.Fatalf("EmptyPlaylist() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if len(deleted) != 2 {
		t.Errorf("deleted = %v, want 2 deletions", deleted)
	}
}

func TestTrendingVideos(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("chart"); got != "mostPopular" {
			t.Errorf("chart = %q, want mostPopular", got)
		}
		if got := r.URL.Query().Get("regionCode"); got != "DE" {
			t.Errorf("regionCode = %q, want DE", got)
		}
		fmt.Fprint(w, `{
			"items": [
				{"id": "v1", "snippet": {"title": "Hit", "channelTitle": "Chan"}, "statistics": {"viewCount": "99"}, "contentDetails": {"duration": "PT3M"}}
			]
		}`)
	}))

	videos, err := c.TrendingVideos(context.Background(), "DE", 10)
	if err != nil {
		t.Fatalf("TrendingVideos() error = %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(videos))
	}
	if videos[0].Views != 99 || videos[0].DurationSeconds != 180 {
		t.Errorf("video = %+v, want 99 views and 180s", videos[0])
	}
}
