package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"tubesync/internal/auth"
	"tubesync/internal/batch"
	syncer "tubesync/internal/sync"
	"tubesync/internal/yt"
	"tubesync/pkg/config"
)

var (
	syncBatchSize  int
	syncRetryDelay time.Duration
	syncNoFilter   bool
	syncWatch      bool
	batchAddTitle  string
)

var syncCmd = &cobra.Command{
	Use:   "sync <channelID> <playlistID>",
	Short: "Sync a channel's uploads into a playlist",
	Long: `Fetch every upload of the channel, apply the configured keyword and
duration filters, and insert the videos the playlist is missing.`,
	Args: cobra.ExactArgs(2),
	RunE: runSync,
}

var syncBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Manage and run the batch sync roster",
}

var syncBatchAddCmd = &cobra.Command{
	Use:   "add <channelID> <playlistID>",
	Short: "Add a channel/playlist pair to the roster",
	Args:  cobra.ExactArgs(2),
	RunE:  runBatchAdd,
}

var syncBatchRemoveCmd = &cobra.Command{
	Use:   "remove <channelID>",
	Short: "Remove a channel from the roster",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatchRemove,
}

var syncBatchListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the roster",
	RunE:  runBatchList,
}

var syncBatchRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Sync every roster entry",
	RunE:  runBatchRun,
}

func init() {
	syncCmd.Flags().IntVar(&syncBatchSize, "batch-size", 0, "Inserts per batch (default from config)")
	syncCmd.Flags().DurationVar(&syncRetryDelay, "retry-delay", 0, "Pause between insert attempts (default from config)")
	syncCmd.Flags().BoolVar(&syncNoFilter, "no-filter", false, "Ignore the configured keyword and duration filters")
	syncBatchAddCmd.Flags().StringVar(&batchAddTitle, "title", "", "Channel title to record alongside the ID")
	syncBatchRunCmd.Flags().BoolVar(&syncWatch, "watch", false, "Keep running, re-syncing at the configured auto-update interval")

	syncBatchCmd.AddCommand(syncBatchAddCmd, syncBatchRemoveCmd, syncBatchListCmd, syncBatchRunCmd)
	syncCmd.AddCommand(syncBatchCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	cfg := loadConfig()
	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	res := syncOne(ctx, engine, cfg, args[0], args[1])
	printSyncResult(res)
	return nil
}

func runBatchAdd(cmd *cobra.Command, args []string) error {
	store, err := batch.Open(loadConfig().BatchFile)
	if err != nil {
		return err
	}
	if err := store.Add(batch.Entry{ChannelID: args[0], ChannelTitle: batchAddTitle, PlaylistID: args[1]}); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Added " + args[0] + " to the batch roster"))
	return nil
}

func runBatchRemove(cmd *cobra.Command, args []string) error {
	store, err := batch.Open(loadConfig().BatchFile)
	if err != nil {
		return err
	}
	if err := store.Remove(args[0]); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Removed " + args[0] + " from the batch roster"))
	return nil
}

func runBatchList(cmd *cobra.Command, args []string) error {
	store, err := batch.Open(loadConfig().BatchFile)
	if err != nil {
		return err
	}
	entries := store.Entries()
	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("Batch roster is empty"))
		return nil
	}
	for _, e := range entries {
		title := e.ChannelTitle
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %s → %s\n", e.ChannelID, titleStyle.Render(title), e.PlaylistID)
	}
	return nil
}

func runBatchRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	cfg := loadConfig()
	interval := time.Duration(cfg.Sync.AutoUpdateIntervalMinutes) * time.Minute
	if syncWatch && interval <= 0 {
		return fmt.Errorf("watch mode needs auto_update_interval_minutes > 0 in config.yaml")
	}

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	if err := syncRoster(ctx, engine, cfg); err != nil {
		return err
	}
	if !syncWatch {
		return nil
	}

	slog.Info("Watch mode started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down...")
			return nil
		case <-ticker.C:
			if err := syncRoster(ctx, engine, cfg); err != nil {
				slog.Error("Batch run failed", "error", err)
			}
		}
	}
}

func syncRoster(ctx context.Context, engine *syncer.Engine, cfg *config.Config) error {
	store, err := batch.Open(cfg.BatchFile)
	if err != nil {
		return err
	}
	entries := store.Entries()
	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("Batch roster is empty"))
		return nil
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Println(titleStyle.Render("Syncing " + e.ChannelID))
		res := syncOne(ctx, engine, cfg, e.ChannelID, e.PlaylistID)
		printSyncResult(res)
	}
	return nil
}

func syncOne(ctx context.Context, engine *syncer.Engine, cfg *config.Config, channelID, playlistID string) syncer.Result {
	req := syncer.Request{ChannelID: channelID, PlaylistID: playlistID}
	if !syncNoFilter {
		req.Filter = syncer.Criteria{
			ExcludeKeywords:    cfg.Keywords(),
			MinDurationSeconds: cfg.MinDurationSeconds(),
			MaxDurationSeconds: cfg.MaxDurationSeconds(),
		}
	}
	return engine.Sync(ctx, req)
}

// buildEngine assembles the engine over an authenticated client, with a
// goroutine draining the progress channel onto the terminal.
func buildEngine(ctx context.Context, cfg *config.Config) (*syncer.Engine, error) {
	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set, run: tubesync setup")
	}

	a := auth.New(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	svc, err := a.Service(ctx)
	if err != nil {
		return nil, err
	}

	opts := syncer.Options{
		BatchSize:  cfg.Sync.BatchSize,
		MaxRetries: cfg.Sync.MaxRetries,
		RetryDelay: time.Duration(cfg.Sync.RetryDelaySeconds) * time.Second,
		BatchPause: time.Duration(cfg.Sync.BatchPauseSeconds) * time.Second,
	}
	if syncBatchSize > 0 {
		opts.BatchSize = syncBatchSize
	}
	if syncRetryDelay > 0 {
		opts.RetryDelay = syncRetryDelay
	}

	progress := make(chan float64, 16)
	opts.Progress = progress
	go func() {
		for pct := range progress {
			fmt.Println(infoStyle.Render(fmt.Sprintf("Progress: %.0f%%", pct)))
		}
	}()

	return syncer.NewEngine(yt.NewClient(svc), opts), nil
}

func printSyncResult(res syncer.Result) {
	switch res.State {
	case syncer.StateCompleted:
		fmt.Println(successStyle.Render(fmt.Sprintf(
			"✓ Sync complete: %d candidate(s), %d new, %d added, %d abandoned",
			res.Candidates, res.New, res.Added, res.Abandoned)))
	case syncer.StateCancelled:
		fmt.Println(warnStyle.Render(fmt.Sprintf("△ Sync cancelled after %d addition(s)", res.Added)))
	default:
		fmt.Println(errorStyle.Render("✗ Sync failed: " + res.Err.Error()))
	}
}
