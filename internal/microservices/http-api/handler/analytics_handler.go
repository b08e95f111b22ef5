package handler

import (
	"fmt"
	"net/http"
	"time"

	"reviewlens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves the organization dashboards: headline metrics,
// aspect rollups, insights, the weekly report and usage
type AnalyticsHandler struct {
	dashboardService service.DashboardService
	aspectService    service.AspectService
	insightService   service.InsightService
	reportService    service.ReportService
	usageService     service.UsageService
}

func NewAnalyticsHandler(
	dashboardService service.DashboardService,
	aspectService service.AspectService,
	insightService service.InsightService,
	reportService service.ReportService,
	usageService service.UsageService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		dashboardService: dashboardService,
		aspectService:    aspectService,
		insightService:   insightService,
		reportService:    reportService,
		usageService:     usageService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup, member gin.HandlerFunc) {
	router.GET("/dashboard/:org_id", member, h.Dashboard)
	router.GET("/aspects/:org_id", member, h.Aspects)

	insights := router.Group("/insights/:org_id", member)
	{
		insights.GET("", h.Insights)
		insights.POST("/recompute", h.RecomputeInsights)
	}

	router.GET("/reports/:org_id/weekly", member, h.WeeklyReport)
	router.GET("/usage/:org_id", member, h.Usage)
}

// GET /api/dashboard/:org_id
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.Get(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		respondError(c, err, "failed to fetch dashboard data")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GET /api/aspects/:org_id
func (h *AnalyticsHandler) Aspects(c *gin.Context) {
	rollups, err := h.aspectService.Rollups(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		respondError(c, err, "failed to fetch aspect scores")
		return
	}
	c.JSON(http.StatusOK, gin.H{"aspects": rollups})
}

// GET /api/insights/:org_id
func (h *AnalyticsHandler) Insights(c *gin.Context) {
	insights, err := h.insightService.List(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		respondError(c, err, "failed to fetch insights")
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

// POST /api/insights/:org_id/recompute
func (h *AnalyticsHandler) RecomputeInsights(c *gin.Context) {
	insight, err := h.insightService.Recompute(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		respondError(c, err, "failed to recompute insights")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insight": insight})
}

// WeeklyReport downloads the generated report as plain text
// GET /api/reports/:org_id/weekly
func (h *AnalyticsHandler) WeeklyReport(c *gin.Context) {
	report, err := h.reportService.Weekly(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		respondError(c, err, "failed to generate report")
		return
	}

	filename := fmt.Sprintf("weekly-report-%s.txt", time.Now().UTC().Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.String(http.StatusOK, report.Text)
}

// GET /api/usage/:org_id
func (h *AnalyticsHandler) Usage(c *gin.Context) {
	usage, err := h.usageService.Stats(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		respondError(c, err, "failed to fetch usage stats")
		return
	}
	c.JSON(http.StatusOK, usage)
}
