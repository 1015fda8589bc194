package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	playlistDescription string
	playlistPrivacy     string
	playlistYes         bool
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Manage your playlists",
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your playlists",
	RunE:  runPlaylistList,
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistCreate,
}

var playlistUpdateCmd = &cobra.Command{
	Use:   "update <playlistID> <title>",
	Short: "Update a playlist's title, description and privacy",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlaylistUpdate,
}

var playlistDeleteCmd = &cobra.Command{
	Use:   "delete <playlistID>",
	Short: "Delete a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistDelete,
}

var playlistEmptyCmd = &cobra.Command{
	Use:   "empty <playlistID>",
	Short: "Remove every video from a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistEmpty,
}

func init() {
	playlistCreateCmd.Flags().StringVarP(&playlistDescription, "description", "d", "", "Playlist description")
	playlistCreateCmd.Flags().StringVarP(&playlistPrivacy, "privacy", "p", "private", "Privacy status: private, unlisted, public")
	playlistUpdateCmd.Flags().StringVarP(&playlistDescription, "description", "d", "", "Playlist description")
	playlistUpdateCmd.Flags().StringVarP(&playlistPrivacy, "privacy", "p", "private", "Privacy status: private, unlisted, public")
	playlistDeleteCmd.Flags().BoolVarP(&playlistYes, "yes", "y", false, "Skip the confirmation prompt")
	playlistEmptyCmd.Flags().BoolVarP(&playlistYes, "yes", "y", false, "Skip the confirmation prompt")

	playlistCmd.AddCommand(playlistListCmd, playlistCreateCmd, playlistUpdateCmd, playlistDeleteCmd, playlistEmptyCmd)
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylistList(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	facade, err := buildFacade(ctx)
	if err != nil {
		return err
	}

	playlists := facade.ListPlaylists(ctx)
	if len(playlists) == 0 {
		fmt.Println(infoStyle.Render("No playlists found"))
		return nil
	}
	for _, p := range playlists {
		fmt.Printf("%s  %s (%s)\n", p.ID, titleStyle.Render(p.Title), p.Privacy)
	}
	return nil
}

func runPlaylistCreate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	facade, err := buildFacade(ctx)
	if err != nil {
		return err
	}

	id := facade.CreatePlaylist(ctx, args[0], playlistDescription, playlistPrivacy)
	if id == "" {
		fmt.Println(errorStyle.Render("✗ Playlist creation failed, see log"))
		return nil
	}
	fmt.Println(successStyle.Render("✓ Playlist created: " + id))
	return nil
}

func runPlaylistUpdate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	facade, err := buildFacade(ctx)
	if err != nil {
		return err
	}

	if !facade.UpdatePlaylist(ctx, args[0], args[1], playlistDescription, playlistPrivacy) {
		fmt.Println(errorStyle.Render("✗ Playlist update failed, see log"))
		return nil
	}
	fmt.Println(successStyle.Render("✓ Playlist updated"))
	return nil
}

func runPlaylistDelete(cmd *cobra.Command, args []string) error {
	if !playlistYes {
		ok, err := confirmDestructive("Delete playlist " + args[0] + "?")
		if err != nil || !ok {
			return err
		}
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	facade, err := buildFacade(ctx)
	if err != nil {
		return err
	}

	if !facade.DeletePlaylist(ctx, args[0]) {
		fmt.Println(errorStyle.Render("✗ Playlist deletion failed, see log"))
		return nil
	}
	fmt.Println(successStyle.Render("✓ Playlist deleted"))
	return nil
}

func runPlaylistEmpty(cmd *cobra.Command, args []string) error {
	if !playlistYes {
		ok, err := confirmDestructive("Remove every video from playlist " + args[0] + "?")
		if err != nil || !ok {
			return err
		}
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	facade, err := buildFacade(ctx)
	if err != nil {
		return err
	}

	removed := facade.EmptyPlaylist(ctx, args[0])
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Removed %d video(s)", removed)))
	return nil
}

func confirmDestructive(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Println(infoStyle.Render("Aborted"))
	}
	return ok, nil
}
