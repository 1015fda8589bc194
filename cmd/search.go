package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubesync/internal/yt"
)

var (
	searchOrder  string
	searchAfter  string
	searchBefore string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for YouTube channels",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var channelCmd = &cobra.Command{
	Use:   "channel <channelID>",
	Short: "Show details for one channel",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannel,
}

func init() {
	searchCmd.Flags().StringVar(&searchOrder, "order", "", "Result order: relevance, date, viewCount, videoCount")
	searchCmd.Flags().StringVar(&searchAfter, "after", "", "Only channels created after this RFC 3339 timestamp")
	searchCmd.Flags().StringVar(&searchBefore, "before", "", "Only channels created before this RFC 3339 timestamp")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(channelCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	facade, err := buildFacade(ctx)
	if err != nil {
		return err
	}

	channels := facade.SearchChannels(ctx, args[0], yt.SearchOptions{
		Order:           searchOrder,
		PublishedAfter:  searchAfter,
		PublishedBefore: searchBefore,
	})
	if len(channels) == 0 {
		fmt.Println(infoStyle.Render("No channels found"))
		return nil
	}

	for _, ch := range channels {
		fmt.Printf("%s  %s\n", ch.ID, titleStyle.Render(ch.Title))
		if ch.Description != "" {
			fmt.Printf("    %s\n", ch.Description)
		}
	}
	return nil
}

func runChannel(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	facade, err := buildFacade(ctx)
	if err != nil {
		return err
	}

	details := facade.ChannelDetails(ctx, args[0])
	if details == nil {
		fmt.Println(infoStyle.Render("Channel not found"))
		return nil
	}

	fmt.Println(titleStyle.Render(details.Title))
	fmt.Printf("Subscribers: %d\n", details.Subscribers)
	if details.Description != "" {
		fmt.Println(details.Description)
	}
	return nil
}
