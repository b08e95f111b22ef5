package command

import (
	"errors"
	"fmt"

	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/middleware/auth"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	tokenEmail    string
	tokenPassword string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a user",
	Long: `Looks the user up by email and prints a signed API token carrying their role.
With --password the stored password hash is checked first.`,
	Example: `  reviewctl token --user owner@example.com
  export TOKEN=$(reviewctl token --user owner@example.com --quiet)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svcs, err := services()
		if err != nil {
			return err
		}

		user, err := svcs.Users.FindByEmail(cmd.Context(), tokenEmail)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("no user with email %s", tokenEmail)
			}
			return err
		}
		if tokenPassword != "" {
			if err := auth.VerifyPassword(user.Password, tokenPassword); err != nil {
				return err
			}
		}

		token, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry).Issue(user.ID, user.Role)
		if err != nil {
			return fmt.Errorf("signing token: %w", err)
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		if quiet {
			fmt.Println(token)
			return nil
		}

		color.Green("✓ Token for %s (%s)", user.Email, user.Role)
		if user.Role == models.RoleOwner {
			orgs, err := svcs.Organizations.ListForUser(cmd.Context(), user.ID)
			if err == nil {
				for _, org := range orgs {
					fmt.Printf("Organization: %s (%s)\n", org.Name, org.ID)
				}
			}
		}
		fmt.Printf("Expires in: %s\n\n", cfg.JWTExpiry)
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "user", "", "email of the user")
	tokenCmd.Flags().StringVar(&tokenPassword, "password", "", "verify this password before issuing")
	tokenCmd.Flags().BoolP("quiet", "q", false, "print only the token")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(tokenCmd)
}
