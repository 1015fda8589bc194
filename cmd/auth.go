package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubesync/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with YouTube (OAuth)",
	Long:  `Complete the YouTube OAuth consent flow using credentials from .env.`,
	RunE:  runAuth,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check YouTube authentication status",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return fmt.Errorf("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set in .env")
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a := auth.New(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	if _, err := a.Token(ctx); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ YouTube authentication complete"))
	fmt.Println(successStyle.Render("  Token saved to: " + cfg.YouTubeTokenPath))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		fmt.Println(errorStyle.Render("✗ YouTube: missing YOUTUBE_CLIENT_ID or YOUTUBE_CLIENT_SECRET"))
		fmt.Println(infoStyle.Render("  Run: tubesync setup"))
		return nil
	}

	a := auth.New(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	switch state := a.State(); state {
	case auth.TokenValid:
		fmt.Println(successStyle.Render("✓ YouTube: authenticated"))
	case auth.TokenExpired:
		fmt.Println(warnStyle.Render("△ YouTube: token expired, will refresh on next use"))
	case auth.TokenAbsent:
		fmt.Println(errorStyle.Render("✗ YouTube: credentials set, but not authenticated"))
		fmt.Println(infoStyle.Render("  Run: tubesync auth"))
	default:
		fmt.Println(errorStyle.Render("✗ YouTube: token file unreadable (" + state.String() + ")"))
		fmt.Println(infoStyle.Render("  Run: tubesync auth"))
	}
	return nil
}
