package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	trendingRegion string
	trendingMax    int64
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List the most popular videos for a region",
	RunE:  runTrending,
}

func init() {
	trendingCmd.Flags().StringVar(&trendingRegion, "region", "", "ISO 3166-1 alpha-2 region code (default from config)")
	trendingCmd.Flags().Int64Var(&trendingMax, "max", 0, "How many videos to list (default from config)")
	rootCmd.AddCommand(trendingCmd)
}

func runTrending(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	cfg := loadConfig()
	region := trendingRegion
	if region == "" {
		region = cfg.Trending.Region
	}
	maxResults := trendingMax
	if maxResults <= 0 {
		maxResults = int64(cfg.Trending.MaxResults)
	}

	facade, err := buildFacade(ctx)
	if err != nil {
		return err
	}

	videos := facade.TrendingVideos(ctx, region, maxResults)
	if len(videos) == 0 {
		fmt.Println(infoStyle.Render("No trending videos found"))
		return nil
	}

	for i, v := range videos {
		fmt.Printf("%2d. %s\n", i+1, titleStyle.Render(v.Title))
		fmt.Printf("    %s · %d views · %dm%02ds\n",
			v.ChannelTitle, v.Views, v.DurationSeconds/60, v.DurationSeconds%60)
	}
	return nil
}
