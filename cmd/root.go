package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tubesync/internal/auth"
	"tubesync/internal/yt"
	"tubesync/pkg/config"
)

var (
	verbose    bool
	configPath string
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var rootCmd = &cobra.Command{
	Use:   "tubesync",
	Short: "Keep YouTube playlists in sync with channel uploads",
	Long: `Tubesync searches channels, mirrors their uploads into playlists with
keyword and duration filters, and manages playlists from the terminal.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger(loadConfig())
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() *config.Config {
	return config.Load(configPath)
}

func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	out := io.Writer(os.Stdout)
	if f, err := logFileWriter(cfg.LogFile); err == nil {
		out = io.MultiWriter(os.Stdout, f)
	} else {
		fmt.Fprintln(os.Stderr, warnStyle.Render("Could not open log file: "+err.Error()))
	}
	slog.SetDefault(slog.New(newLogHandler(out, level)))
}

// buildFacade wires config through the credential store to an API facade.
// It triggers the consent flow when no usable token is on disk.
func buildFacade(ctx context.Context) (*yt.Facade, error) {
	cfg := loadConfig()
	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set, run: tubesync setup")
	}

	a := auth.New(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	svc, err := a.Service(ctx)
	if err != nil {
		return nil, err
	}
	return yt.NewFacade(yt.NewClient(svc)), nil
}

// signalContext derives a context cancelled on SIGINT or SIGTERM, so long
// operations wind down as cancelled rather than killed mid-call.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
