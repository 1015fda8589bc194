package sync

import (
	"context"
	"log/slog"
	"sort"
)

// Prune removes playlist items whose video duration falls inside the given
// bounds, in seconds; a zero bound is open on that side. Note the predicate
// is the inverse of the admission filter: pruning removes videos within the
// range, so keeping only 1–20 minute videos means pruning with complementary
// bounds. Delete failures are logged and not retried; such items are not
// counted as removed. Returns the number of deletions.
func (e *Engine) Prune(ctx context.Context, playlistID string, minSeconds, maxSeconds int) (int, error) {
	op := newOpLogger(playlistID)

	refs, err := e.api.PlaylistItemRefs(ctx, playlistID)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	details, err := e.api.VideoDetails(ctx, ids)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, d := range details {
		if minSeconds > 0 && d.DurationSeconds < minSeconds {
			continue
		}
		if maxSeconds > 0 && d.DurationSeconds > maxSeconds {
			continue
		}
		itemID, ok := refs[d.ID]
		if !ok {
			continue
		}
		if err := e.api.DeletePlaylistItem(ctx, itemID); err != nil {
			op.Error("Prune deletion failed", "video", d.ID, "error", err)
			continue
		}
		op.Info("Video pruned", "video", d.ID, "duration_seconds", d.DurationSeconds)
		removed++
	}

	op.Info("Prune finished", "removed", removed)
	return removed, nil
}

func newOpLogger(playlistID string) *slog.Logger {
	return slog.With("playlist", playlistID)
}
