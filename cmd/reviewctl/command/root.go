package command

// root.go defines the root command for reviewctl, the operator CLI that talks
// to the database directly: demo seeding, CSV imports, creator ranking and tokens.

import (
	"fmt"
	"log/slog"
	"os"

	"reviewlens/database"
	"reviewlens/internal/classifier"
	"reviewlens/internal/config"
	"reviewlens/internal/microservices/http-api/router"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
)

var rootCmd = &cobra.Command{
	Use:   "reviewctl",
	Short: "reviewctl - ReviewLens operator CLI",
	Long: `reviewctl works against the ReviewLens database using the same configuration
as the API server (.env or environment). Use it to:
- Seed a demo organization with reviews, creators and training material
- Import a reviews CSV into an organization
- Rank creators by brand fit
- Mint a bearer token for a user

Use "reviewctl [command] --help" to see the flags of each command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
		logger = cfg.Logger()
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			_ = database.Close(db)
		}
	},
}

// Execute runs the root command; called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// openDB connects on first use so commands that need no database stay offline
func openDB() (*gorm.DB, error) {
	if db != nil {
		return db, nil
	}
	conn, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	db = conn
	return db, nil
}

// services builds the service layer; AI stays off unless an API key is configured
func services() (*router.Services, error) {
	conn, err := openDB()
	if err != nil {
		return nil, err
	}
	var c classifier.Classifier = classifier.Disabled{}
	if cfg.OpenAIAPIKey != "" {
		c = classifier.NewOpenAIClient(classifier.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.AITimeout,
		}, logger)
	}
	return router.NewServices(conn, c, nil, cfg.ClassifyConcurrency, logger), nil
}
