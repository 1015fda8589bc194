package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"tubesync/internal/auth"
	"tubesync/pkg/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Long:  `Configure YouTube OAuth credentials and sync defaults.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("▶ Tubesync Setup"))

	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	fmt.Println(infoStyle.Render(`
To create OAuth credentials:
1. Go to https://console.cloud.google.com/apis/credentials
2. Click "Create Credentials" → "OAuth client ID"
3. Choose "Desktop app" as application type
4. Copy the Client ID and Client Secret
`))

	var clientID, clientSecret string
	credentials := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("YouTube Client ID").
				Value(&clientID).
				Validate(required("YouTube Client ID")),
			huh.NewInput().
				Title("YouTube Client Secret").
				EchoMode(huh.EchoModePassword).
				Value(&clientSecret).
				Validate(required("YouTube Client Secret")),
		),
	)
	if err := credentials.Run(); err != nil {
		return err
	}

	cfg := loadConfig()
	if err := configureSyncDefaults(cfg); err != nil {
		return err
	}

	if err := writeEnvFile(strings.TrimSpace(clientID), strings.TrimSpace(clientSecret)); err != nil {
		return err
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Println(successStyle.Render("✓ Configuration saved"))

	var authenticate bool
	if err := huh.NewConfirm().
		Title("Authenticate with YouTube now?").
		Description("Opens browser to complete OAuth flow").
		Value(&authenticate).
		Run(); err != nil {
		return err
	}
	if !authenticate {
		fmt.Println(infoStyle.Render("You can authenticate later with: tubesync auth"))
		return nil
	}

	a := auth.New(strings.TrimSpace(clientID), strings.TrimSpace(clientSecret), cfg.YouTubeTokenPath)
	if _, err := a.Token(cmd.Context()); err != nil {
		fmt.Println(warnStyle.Render("Authentication failed: " + err.Error()))
		fmt.Println(infoStyle.Render("Retry later with: tubesync auth"))
		return nil
	}

	return verifyAccess(cmd, a)
}

func configureSyncDefaults(cfg *config.Config) error {
	keywords := cfg.Sync.ExcludeKeywords
	minMinutes := strconv.Itoa(cfg.Sync.MinDurationMinutes)
	maxMinutes := strconv.Itoa(cfg.Sync.MaxDurationMinutes)
	region := cfg.Trending.Region

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Exclude keywords").
				Description("Comma-separated; videos whose title or description contains one are skipped").
				Value(&keywords),
			huh.NewInput().
				Title("Minimum duration (minutes)").
				Description("0 disables the bound").
				Value(&minMinutes).
				Validate(numeric("Minimum duration")),
			huh.NewInput().
				Title("Maximum duration (minutes)").
				Description("0 disables the bound").
				Value(&maxMinutes).
				Validate(numeric("Maximum duration")),
			huh.NewInput().
				Title("Trending region").
				Description("ISO 3166-1 alpha-2 code").
				Value(&region),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Sync.ExcludeKeywords = strings.TrimSpace(keywords)
	cfg.Sync.MinDurationMinutes, _ = strconv.Atoi(strings.TrimSpace(minMinutes))
	cfg.Sync.MaxDurationMinutes, _ = strconv.Atoi(strings.TrimSpace(maxMinutes))
	if r := strings.TrimSpace(region); r != "" {
		cfg.Trending.Region = strings.ToUpper(r)
	}
	return nil
}

// verifyAccess lists the user's playlists once to prove the credential works.
func verifyAccess(cmd *cobra.Command, a *auth.Authenticator) error {
	var verifyErr error
	_ = spinner.New().
		Title("Verifying YouTube access").
		Action(func() {
			svc, err := a.Service(cmd.Context())
			if err != nil {
				verifyErr = err
				return
			}
			_, verifyErr = svc.Playlists.List([]string{"id"}).Mine(true).MaxResults(1).Do()
		}).
		Run()

	if verifyErr != nil {
		fmt.Println(warnStyle.Render("Verification failed: " + verifyErr.Error()))
		return nil
	}
	fmt.Println(successStyle.Render("✓ YouTube access verified"))
	return nil
}

func writeEnvFile(clientID, clientSecret string) error {
	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintf(f, "YOUTUBE_CLIENT_ID=%s\n", clientID)
	_, _ = fmt.Fprintf(f, "YOUTUBE_CLIENT_SECRET=%s\n", clientSecret)

	fmt.Println(successStyle.Render("✓ Created .env file"))
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func numeric(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%s must be a whole number", field)
		}
		return nil
	}
}
