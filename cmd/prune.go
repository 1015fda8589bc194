package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	pruneMinMinutes int
	pruneMaxMinutes int
	pruneYes        bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune <playlistID>",
	Short: "Remove playlist videos inside a duration range",
	Long: `Delete every video in the playlist whose duration falls inside the
given bounds. A bound of 0 is open on that side, so --max 3 alone removes
everything up to three minutes long.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().IntVar(&pruneMinMinutes, "min", 0, "Lower bound in minutes (0 = open)")
	pruneCmd.Flags().IntVar(&pruneMaxMinutes, "max", 0, "Upper bound in minutes (0 = open)")
	pruneCmd.Flags().BoolVarP(&pruneYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	if !pruneYes {
		ok, err := confirmDestructive(fmt.Sprintf(
			"Remove videos between %d and %d minutes from playlist %s?",
			pruneMinMinutes, pruneMaxMinutes, args[0]))
		if err != nil || !ok {
			return err
		}
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	engine, err := buildEngine(ctx, loadConfig())
	if err != nil {
		return err
	}

	removed, err := engine.Prune(ctx, args[0], pruneMinMinutes*60, pruneMaxMinutes*60)
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Pruned %d video(s)", removed)))
	return nil
}
