// Package sync implements the channel-to-playlist reconciliation engine: it
// fetches a channel's uploads, filters them, diffs against the target
// playlist's membership and inserts what is missing in paced, retried batches.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"tubesync/internal/yt"
)

// API is the slice of the YouTube client the engine needs.
type API interface {
	ChannelVideoIDs(ctx context.Context, channelID string) (map[string]struct{}, error)
	PlaylistVideoIDs(ctx context.Context, playlistID string) (map[string]struct{}, error)
	PlaylistItemRefs(ctx context.Context, playlistID string) (map[string]string, error)
	VideoDetails(ctx context.Context, ids []string) ([]yt.VideoDetails, error)
	InsertPlaylistItem(ctx context.Context, playlistID, videoID string) error
	DeletePlaylistItem(ctx context.Context, itemID string) error
}

// State is the engine's position in a sync operation.
type State int

const (
	StateFetching State = iota
	StateFiltering
	StateDiffing
	StateInserting
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateFiltering:
		return "filtering"
	case StateDiffing:
		return "diffing"
	case StateInserting:
		return "inserting"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	defaultBatchSize  = 20
	defaultMaxRetries = 3
	defaultRetryDelay = 5 * time.Second
	defaultBatchPause = 15 * time.Second
)

type Options struct {
	// BatchSize is how many inserts run between pacing pauses.
	BatchSize int
	// MaxRetries is the total number of insert attempts per video.
	MaxRetries int
	// RetryDelay is the constant pause between attempts for one video.
	RetryDelay time.Duration
	// BatchPause is the pause between consecutive batches.
	BatchPause time.Duration
	// Progress receives percentages after each batch. Sends never block;
	// a full channel drops the update.
	Progress chan<- float64
}

type Engine struct {
	api  API
	opts Options

	// sleep is swapped out in tests; it reports false when ctx ended first.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewEngine(api API, opts Options) *Engine {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.BatchPause <= 0 {
		opts.BatchPause = defaultBatchPause
	}
	return &Engine{
		api:   api,
		opts:  opts,
		sleep: sleepCtx,
	}
}

// Request names the source channel, the target playlist and the admission
// filter for one sync operation.
type Request struct {
	ChannelID  string
	PlaylistID string
	Filter     Criteria
}

// Result is the outcome of one sync operation. Counters reflect how far the
// operation got before its terminal state.
type Result struct {
	Op         string
	State      State
	Candidates int
	Admitted   int
	New        int
	Added      int
	Abandoned  int
	Err        error
}

// Sync reconciles one channel against one playlist. Errors from the fetch and
// diff stages terminate the operation as Failed (or Cancelled when the
// context ended); the insert loop swallows its own failures.
func (e *Engine) Sync(ctx context.Context, req Request) Result {
	res := Result{Op: uuid.NewString(), State: StateFetching}
	log := slog.With("op", res.Op, "channel", req.ChannelID, "playlist", req.PlaylistID)
	log.Info("Sync started")

	uploads, err := e.api.ChannelVideoIDs(ctx, req.ChannelID)
	if err != nil {
		return e.fail(log, res, err)
	}
	res.Candidates = len(uploads)
	if len(uploads) == 0 {
		log.Info("Channel has no uploads, nothing to do")
		res.State = StateCompleted
		return res
	}

	admitted := uploads
	if !req.Filter.IsZero() {
		res.State = StateFiltering
		admitted, err = e.filter(ctx, uploads, req.Filter)
		if err != nil {
			return e.fail(log, res, err)
		}
		log.Info("Filter applied", "candidates", res.Candidates, "admitted", len(admitted))
	}
	res.Admitted = len(admitted)

	res.State = StateDiffing
	membership, err := e.api.PlaylistVideoIDs(ctx, req.PlaylistID)
	if err != nil {
		return e.fail(log, res, err)
	}

	toAdd := difference(admitted, membership)
	res.New = len(toAdd)
	log.Info("Reconciliation computed", "new", res.New, "already_present", len(membership))
	if len(toAdd) == 0 {
		res.State = StateCompleted
		return res
	}

	res.State = StateInserting
	return e.insertAll(ctx, log, req.PlaylistID, toAdd, res)
}

func (e *Engine) insertAll(ctx context.Context, log *slog.Logger, playlistID string, toAdd []string, res Result) Result {
	batchSize := e.opts.BatchSize
	totalBatches := (len(toAdd) + batchSize - 1) / batchSize

	for batch := 0; batch*batchSize < len(toAdd); batch++ {
		if ctx.Err() != nil {
			return e.cancel(log, res)
		}

		end := min((batch+1)*batchSize, len(toAdd))
		for _, videoID := range toAdd[batch*batchSize : end] {
			if ctx.Err() != nil {
				return e.cancel(log, res)
			}
			if e.insertWithRetry(ctx, log, playlistID, videoID) {
				res.Added++
			} else {
				res.Abandoned++
			}
		}

		pct := float64(batch+1) / float64(totalBatches) * 100
		e.report(pct)
		log.Info("Batch complete", "batch", batch+1, "total", totalBatches, "progress", pct)

		if batch+1 < totalBatches {
			if !e.sleep(ctx, e.opts.BatchPause) {
				return e.cancel(log, res)
			}
		}
	}

	log.Info("Sync finished", "added", res.Added, "abandoned", res.Abandoned)
	res.State = StateCompleted
	return res
}

// insertWithRetry attempts one insert up to MaxRetries times with a constant
// delay between attempts. It reports whether the video made it in; a video
// that fails every attempt is abandoned without surfacing an error.
func (e *Engine) insertWithRetry(ctx context.Context, log *slog.Logger, playlistID, videoID string) bool {
	for attempt := 1; attempt <= e.opts.MaxRetries; attempt++ {
		err := e.api.InsertPlaylistItem(ctx, playlistID, videoID)
		if err == nil {
			log.Info("Video added", "video", videoID)
			return true
		}
		log.Error("Insert failed", "video", videoID, "attempt", attempt, "error", err)
		if attempt < e.opts.MaxRetries {
			if !e.sleep(ctx, e.opts.RetryDelay) {
				return false
			}
		}
	}
	log.Warn("Video abandoned after retries", "video", videoID, "attempts", e.opts.MaxRetries)
	return false
}

func (e *Engine) filter(ctx context.Context, candidates map[string]struct{}, crit Criteria) (map[string]struct{}, error) {
	details, err := e.api.VideoDetails(ctx, sortedKeys(candidates))
	if err != nil {
		return nil, err
	}

	admitted := make(map[string]struct{})
	for _, d := range details {
		if crit.Admits(d) {
			admitted[d.ID] = struct{}{}
		}
	}
	return admitted, nil
}

func (e *Engine) report(pct float64) {
	if e.opts.Progress == nil {
		return
	}
	select {
	case e.opts.Progress <- pct:
	default:
	}
}

func (e *Engine) fail(log *slog.Logger, res Result, err error) Result {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return e.cancel(log, res)
	}
	log.Error("Sync failed", "stage", res.State.String(), "error", err)
	res.State = StateFailed
	res.Err = err
	return res
}

func (e *Engine) cancel(log *slog.Logger, res Result) Result {
	log.Info("Sync cancelled", "added_so_far", res.Added)
	res.State = StateCancelled
	return res
}

// difference returns a − b as a sorted slice.
func difference(a map[string]struct{}, b map[string]struct{}) []string {
	var out []string
	for id := range a {
		if _, ok := b[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
