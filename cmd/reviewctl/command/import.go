package command

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	importOrg      string
	importFile     string
	importClassify bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a reviews CSV into an organization",
	Long: `Parses a reviews CSV (columns such as rating, text, author, date, source) the same
way the upload endpoint does and stores the rows under --org. With --classify every
imported review is sent to the classifier, which needs OPENAI_API_KEY.`,
	Example: `  reviewctl import --org 5f0c... --file reviews.csv
  reviewctl import --org 5f0c... --file reviews.csv --classify`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("opening %s: %w", importFile, err)
		}
		defer f.Close()

		svcs, err := services()
		if err != nil {
			return err
		}
		if _, err := svcs.Organizations.GetByID(cmd.Context(), importOrg); err != nil {
			return fmt.Errorf("organization %s: %w", importOrg, err)
		}

		resp, err := svcs.Reviews.Upload(cmd.Context(), importOrg, f, importClassify)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ %s", resp.Message)
		fmt.Printf("Imported: %d\n", resp.Count)
		fmt.Printf("Skipped:  %d\n", resp.Skipped)
		if importClassify {
			fmt.Printf("Classified: %d\n", resp.Classified)
			if resp.Unclassified > 0 {
				color.Yellow("Unclassified: %d (classify them one by one with the API)", resp.Unclassified)
			}
		}
		for _, failure := range resp.Failures {
			color.Yellow("  review %s: %s", failure.ReviewID, failure.Error)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importOrg, "org", "", "organization id")
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "path to the reviews CSV")
	importCmd.Flags().BoolVar(&importClassify, "classify", false, "classify each imported review")
	_ = importCmd.MarkFlagRequired("org")
	_ = importCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(importCmd)
}
