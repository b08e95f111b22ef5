package handler

import (
	"net/http"

	"reviewlens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// OrganizationHandler lists the organizations the caller belongs to
type OrganizationHandler struct {
	accessService service.AccessService
}

func NewOrganizationHandler(accessService service.AccessService) *OrganizationHandler {
	return &OrganizationHandler{accessService: accessService}
}

func (h *OrganizationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/organizations", h.List)
}

// GET /api/organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.accessService.Organizations(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err, "failed to fetch organizations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}
