package command

import (
	"fmt"
	"strings"

	"reviewlens/internal/microservices/http-api/repository"
	"reviewlens/internal/microservices/http-api/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	creatorNiches       []string
	creatorLocation     string
	creatorMinFollowers int
	creatorMinFit       int
)

var creatorsCmd = &cobra.Command{
	Use:   "creators",
	Short: "Rank marketplace creators by brand fit",
	Example: `  reviewctl creators
  reviewctl creators --niche travel,luxury --location jamaica --min-fit 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if creatorMinFit < 0 || creatorMinFit > 100 {
			return fmt.Errorf("--min-fit must be between 0 and 100")
		}

		svcs, err := services()
		if err != nil {
			return err
		}

		creators, err := svcs.Creators.List(cmd.Context(), service.CreatorQuery{
			CreatorFilters: repository.CreatorFilters{
				Niches:       creatorNiches,
				Location:     creatorLocation,
				MinFollowers: creatorMinFollowers,
			},
			MinBrandFit: creatorMinFit,
			SortByFit:   true,
		})
		if err != nil {
			return fmt.Errorf("failed to list creators: %w", err)
		}

		if len(creators) == 0 {
			fmt.Println("No creators match.")
			return nil
		}

		fmt.Printf("Creators by brand fit (%d total):\n\n", len(creators))
		for i, c := range creators {
			followers := 0
			engagement := 0.0
			if c.Stats != nil {
				followers = c.Stats.Followers
				engagement = c.Stats.EngagementRate
			}
			fmt.Printf("%2d. %s %-20s %s, %s | %s | %d followers | %.1f%% engagement\n",
				i+1, fitColor(c.BrandFitScore), c.DisplayName, c.City, c.Country,
				strings.Join(c.Niches, ", "), followers, engagement)
		}
		return nil
	},
}

func fitColor(score int) string {
	label := fmt.Sprintf("[%3d]", score)
	switch {
	case score >= 70:
		return color.GreenString(label)
	case score >= 40:
		return color.YellowString(label)
	default:
		return color.RedString(label)
	}
}

func init() {
	creatorsCmd.Flags().StringSliceVar(&creatorNiches, "niche", nil, "niches to match (comma separated)")
	creatorsCmd.Flags().StringVar(&creatorLocation, "location", "", "city or country substring")
	creatorsCmd.Flags().IntVar(&creatorMinFollowers, "min-followers", 0, "minimum follower count")
	creatorsCmd.Flags().IntVar(&creatorMinFit, "min-fit", 0, "minimum brand fit score (0-100)")

	rootCmd.AddCommand(creatorsCmd)
}
