package handler

import (
	"net/http"

	"reviewlens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type TrainingHandler struct {
	trainingService service.TrainingService
}

func NewTrainingHandler(trainingService service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

func (h *TrainingHandler) RegisterRoutes(router *gin.RouterGroup, member gin.HandlerFunc) {
	training := router.Group("/training")
	{
		training.GET("", h.List)
		training.GET("/recommended/:org_id", member, h.Recommended)
	}
}

// GET /api/training?category=
func (h *TrainingHandler) List(c *gin.Context) {
	resources, err := h.trainingService.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err, "failed to fetch training resources")
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": resources})
}

// GET /api/training/recommended/:org_id
func (h *TrainingHandler) Recommended(c *gin.Context) {
	resources, err := h.trainingService.Recommended(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		respondError(c, err, "failed to fetch recommendations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommended": resources})
}
