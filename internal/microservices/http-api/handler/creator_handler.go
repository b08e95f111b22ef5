package handler

import (
	"net/http"
	"strconv"
	"strings"

	"reviewlens/internal/microservices/http-api/dto"
	"reviewlens/internal/microservices/http-api/middleware"
	"reviewlens/internal/microservices/http-api/models"
	"reviewlens/internal/microservices/http-api/repository"
	"reviewlens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CreatorHandler struct {
	creatorService service.CreatorService
}

func NewCreatorHandler(creatorService service.CreatorService) *CreatorHandler {
	return &CreatorHandler{creatorService: creatorService}
}

func (h *CreatorHandler) RegisterRoutes(router *gin.RouterGroup, member gin.HandlerFunc) {
	creators := router.Group("/creators")
	{
		creators.GET("", h.List)
		creators.GET("/profile", h.GetProfile)
		creators.PUT("/profile", middleware.RequireRole(models.RoleCreator), h.SaveProfile)
	}

	shortlist := router.Group("/shortlist/:org_id", member)
	{
		shortlist.GET("", h.Shortlist)
		shortlist.POST("/:creator_id", h.AddToShortlist)
		shortlist.DELETE("/:creator_id", h.RemoveFromShortlist)
	}
}

// List browses the marketplace, every creator annotated with its brand fit
// GET /api/creators?niches=travel,food&location=&min_followers=&min_brand_fit=&sort=brand_fit
func (h *CreatorHandler) List(c *gin.Context) {
	query := service.CreatorQuery{
		CreatorFilters: repository.CreatorFilters{
			Niches:   splitList(c.Query("niches")),
			Location: strings.TrimSpace(c.Query("location")),
		},
		SortByFit: c.Query("sort") == "brand_fit",
	}

	var err error
	if v := c.Query("min_followers"); v != "" {
		if query.MinFollowers, err = strconv.Atoi(v); err != nil || query.MinFollowers < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_followers must be a non-negative number"})
			return
		}
	}
	if v := c.Query("min_brand_fit"); v != "" {
		if query.MinBrandFit, err = strconv.Atoi(v); err != nil || query.MinBrandFit < 0 || query.MinBrandFit > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_brand_fit must be between 0 and 100"})
			return
		}
	}

	creators, err := h.creatorService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "failed to fetch creators")
		return
	}
	c.JSON(http.StatusOK, gin.H{"creators": creators})
}

// GET /api/creators/profile
func (h *CreatorHandler) GetProfile(c *gin.Context) {
	profile, err := h.creatorService.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err, "failed to fetch creator profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// PUT /api/creators/profile
func (h *CreatorHandler) SaveProfile(c *gin.Context) {
	var req dto.SaveCreatorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.creatorService.SaveProfile(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err, "failed to save creator profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GET /api/shortlist/:org_id
func (h *CreatorHandler) Shortlist(c *gin.Context) {
	entries, err := h.creatorService.Shortlist(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		respondError(c, err, "failed to fetch shortlisted creators")
		return
	}
	c.JSON(http.StatusOK, gin.H{"shortlisted": entries})
}

// POST /api/shortlist/:org_id/:creator_id
func (h *CreatorHandler) AddToShortlist(c *gin.Context) {
	if err := h.creatorService.AddToShortlist(c.Request.Context(), c.Param("org_id"), c.Param("creator_id")); err != nil {
		respondError(c, err, "failed to shortlist creator")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/shortlist/:org_id/:creator_id
func (h *CreatorHandler) RemoveFromShortlist(c *gin.Context) {
	if err := h.creatorService.RemoveFromShortlist(c.Request.Context(), c.Param("org_id"), c.Param("creator_id")); err != nil {
		respondError(c, err, "failed to remove from shortlist")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
