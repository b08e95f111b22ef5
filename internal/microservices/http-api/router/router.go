// Package router assembles repositories, services and handlers into the HTTP API.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"reviewlens/internal/classifier"
	"reviewlens/internal/config"
	"reviewlens/internal/microservices/http-api/handler"
	"reviewlens/internal/microservices/http-api/middleware"
	"reviewlens/internal/microservices/http-api/repository"
	"reviewlens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// Services is every service the API and the admin CLI use
type Services struct {
	Access    service.AccessService
	Reviews   service.ReviewService
	Aspects   service.AspectService
	Dashboard service.DashboardService
	Insights  service.InsightService
	Reports   service.ReportService
	Creators  service.CreatorService
	Training  service.TrainingService
	Usage     service.UsageService

	Organizations repository.OrganizationRepository
	Users         repository.UserRepository
	TrainingRepo  repository.TrainingRepository
	ReviewRepo    repository.ReviewRepository
	CreatorRepo   repository.CreatorRepository
}

// NewServices wires repositories over db. quota may be nil to disable daily limits.
func NewServices(db *gorm.DB, c classifier.Classifier, quota service.CallQuota, concurrency int, logger *slog.Logger) *Services {
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	aspectRepo := repository.NewAspectScoreRepository(db)
	reportRepo := repository.NewReportRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	creatorRepo := repository.NewCreatorRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)
	usageRepo := repository.NewUsageRepository(db)

	gateway := service.NewAIGateway(c, quota, usageRepo, logger)
	aspects := service.NewAspectService(aspectRepo)

	return &Services{
		Access:    service.NewAccessService(orgRepo),
		Reviews:   service.NewReviewService(reviewRepo, aspectRepo, usageRepo, gateway, concurrency, logger),
		Aspects:   aspects,
		Dashboard: service.NewDashboardService(reviewRepo, reportRepo, insightRepo, aspects),
		Insights:  service.NewInsightService(reviewRepo, insightRepo, aspects, gateway),
		Reports:   service.NewReportService(orgRepo, reviewRepo, insightRepo, aspects, gateway),
		Creators:  service.NewCreatorService(creatorRepo),
		Training:  service.NewTrainingService(trainingRepo, insightRepo),
		Usage:     service.NewUsageService(reportRepo, quota, logger),

		Organizations: orgRepo,
		Users:         userRepo,
		TrainingRepo:  trainingRepo,
		ReviewRepo:    reviewRepo,
		CreatorRepo:   creatorRepo,
	}
}

// Options for the HTTP surface
type Options struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	UploadMaxBytes int64
	// Health reports dependency status; nil means always healthy
	Health func(ctx context.Context) error
}

// OptionsFromConfig reads the HTTP settings out of cfg
func OptionsFromConfig(cfg *config.Config) Options {
	maxUpload, _ := cfg.UploadMaxBytes()
	return Options{
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		UploadMaxBytes: maxUpload,
	}
}

// New builds the API handler: /health plus every authenticated /api route, behind CORS
func New(svcs *Services, verifier middleware.TokenVerifier, opts Options, logger *slog.Logger) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).Middleware())

	r.GET("/health", func(c *gin.Context) {
		if opts.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.AuthMiddleware(verifier))
	member := middleware.RequireMembership(svcs.Access)

	handler.NewOrganizationHandler(svcs.Access).RegisterRoutes(api)
	handler.NewReviewHandler(svcs.Reviews, opts.UploadMaxBytes).RegisterRoutes(api, member)
	handler.NewAnalyticsHandler(svcs.Dashboard, svcs.Aspects, svcs.Insights, svcs.Reports, svcs.Usage).RegisterRoutes(api, member)
	handler.NewCreatorHandler(svcs.Creators).RegisterRoutes(api, member)
	handler.NewTrainingHandler(svcs.Training).RegisterRoutes(api, member)

	return cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(r)
}
