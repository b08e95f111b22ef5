package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reviewlens/internal/analytics"
	"reviewlens/internal/microservices/http-api/repository"
	"reviewlens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	maxUpload     int64
}

func NewReviewHandler(reviewService service.ReviewService, maxUpload int64) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, maxUpload: maxUpload}
}

// RegisterRoutes registers review routes; member guards every :org_id route
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup, member gin.HandlerFunc) {
	reviews := router.Group("/reviews/:org_id", member)
	{
		reviews.GET("", h.List)
		reviews.POST("/upload", h.Upload)
		reviews.POST("/:review_id/classify", h.Classify)
	}
}

// List returns one page of filtered reviews
// GET /api/reviews/:org_id?date_from=&date_to=&ratings=5,4&sources=&aspects=&keyword=&page=&page_size=
func (h *ReviewHandler) List(c *gin.Context) {
	filters, err := parseReviewFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.reviewService.List(c.Request.Context(), c.Param("org_id"), filters)
	if err != nil {
		respondError(c, err, "failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, page)
}

// Upload imports a CSV export sent as the multipart field "file"
// POST /api/reviews/:org_id/upload?classify=true
func (h *ReviewHandler) Upload(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	classify := false
	if v := c.Query("classify"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "classify must be true or false"})
			return
		}
		classify = parsed
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	resp, err := h.reviewService.Upload(c.Request.Context(), c.Param("org_id"), file, classify)
	if err != nil {
		respondError(c, err, "failed to process CSV upload")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Classify labels one review with aspect sentiment
// POST /api/reviews/:org_id/:review_id/classify
func (h *ReviewHandler) Classify(c *gin.Context) {
	review, err := h.reviewService.Classify(c.Request.Context(), c.Param("org_id"), c.Param("review_id"))
	if err != nil {
		respondError(c, err, "failed to classify review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

func parseReviewFilters(c *gin.Context) (repository.ReviewFilters, error) {
	var filters repository.ReviewFilters

	if v := c.Query("date_from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filters, errors.New("date_from must be YYYY-MM-DD or RFC3339")
		}
		filters.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filters, errors.New("date_to must be YYYY-MM-DD or RFC3339")
		}
		// a bare date includes the whole day
		if len(v) == len(time.DateOnly) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filters.DateTo = &t
	}

	for _, v := range splitList(c.Query("ratings")) {
		r, err := strconv.Atoi(v)
		if err != nil || r < 1 || r > 5 {
			return filters, errors.New("ratings must be numbers between 1 and 5")
		}
		filters.Ratings = append(filters.Ratings, r)
	}
	filters.Sources = splitList(c.Query("sources"))
	for _, v := range splitList(c.Query("aspects")) {
		aspect, ok := analytics.ParseAspect(v)
		if !ok {
			return filters, errors.New("unknown aspect " + strconv.Quote(v))
		}
		filters.Aspects = append(filters.Aspects, string(aspect))
	}
	filters.Keyword = strings.TrimSpace(c.Query("keyword"))

	filters.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filters.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	return filters, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

// splitList reads a comma separated query value, dropping blanks
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
