package links

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/auth"
	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/metrics"
	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/models"
)

// Handler handles link-related requests
type Handler struct {
	db           *gorm.DB
	allocator    *Allocator
	baseURL      string
	storeTimeout time.Duration
}

// NewHandler creates a new links handler. baseURL is used to compute
// the shortUrl field in responses.
func NewHandler(db *gorm.DB, baseURL string, storeTimeout time.Duration) *Handler {
	return &Handler{
		db:           db,
		allocator:    NewAllocator(NewStore(db)),
		baseURL:      baseURL,
		storeTimeout: storeTimeout,
	}
}

// CreateLinkRequest represents the request to create a link
type CreateLinkRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	OriginalURL string `json:"originalUrl" binding:"required,url"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateLinkRequest represents the request to update a link.
// Short code and owner are immutable and deliberately absent.
type UpdateLinkRequest struct {
	Name        string  `json:"name" binding:"omitempty,min=1,max=100"`
	OriginalURL string  `json:"originalUrl" binding:"omitempty,url"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// LinkResponse represents a link in API responses
type LinkResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	OriginalURL string `json:"originalUrl"`
	ShortCode   string `json:"shortCode"`
	ShortURL    string `json:"shortUrl"`
	Description string `json:"description"`
	Clicks      uint   `json:"clicks"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func (h *Handler) linkToResponse(link models.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		Name:        link.Name,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    h.baseURL + "/s/" + link.ShortCode,
		Description: link.Description,
		Clicks:      link.Clicks,
		CreatedAt:   link.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   link.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// storeCtx bounds a store operation with the configured timeout.
func (h *Handler) storeCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.storeTimeout)
}

// storeErrorStatus maps a persistence failure to a response status.
// Timeouts and cancellations count as the store being unavailable.
func storeErrorStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Create creates a new link with a freshly allocated short code
// @Summary Create a link
// @Description Create a new shortened link owned by the authenticated user
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link details"
// @Success 201 {object} LinkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Allocation exhausted or store failure"
// @Security BearerAuth
// @Router /links [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateOriginalURL(req.OriginalURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link := models.Link{
		UserID:      userID,
		Name:        req.Name,
		OriginalURL: req.OriginalURL,
		Description: req.Description,
	}

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	if err := h.allocator.Allocate(ctx, &link); err != nil {
		if errors.Is(err, ErrAllocationExhausted) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate a short code"})
			return
		}
		c.JSON(storeErrorStatus(err), gin.H{"error": "Failed to create link"})
		return
	}

	metrics.LinksCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Link created successfully",
		"link":    h.linkToResponse(link),
	})
}

// List returns all links owned by the authenticated user
// @Summary List links
// @Description Get all links owned by the authenticated user, newest first
// @Tags links
// @Produce json
// @Success 200 {object} map[string][]LinkResponse
// @Security BearerAuth
// @Router /links [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	var links []models.Link
	err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": "Failed to fetch links"})
		return
	}

	responses := make([]LinkResponse, len(links))
	for i, link := range links {
		responses[i] = h.linkToResponse(link)
	}

	c.JSON(http.StatusOK, gin.H{"links": responses})
}

// findOwned loads a link by id scoped to its owner.
func (h *Handler) findOwned(ctx context.Context, id string, userID uint) (*models.Link, error) {
	var link models.Link
	err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Get returns a specific link
// @Summary Get a link
// @Description Get a link by id; only the owner can read it
// @Tags links
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} map[string]LinkResponse
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /links/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	link, err := h.findOwned(ctx, c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(storeErrorStatus(err), gin.H{"error": "Failed to fetch link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"link": h.linkToResponse(*link)})
}

// Update updates a link's name, URL, or description
// @Summary Update a link
// @Description Update an existing link; short code and owner never change
// @Tags links
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body UpdateLinkRequest true "Updated link details"
// @Success 200 {object} map[string]LinkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /links/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	link, err := h.findOwned(ctx, c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(storeErrorStatus(err), gin.H{"error": "Failed to fetch link"})
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		link.Name = req.Name
	}
	if req.OriginalURL != "" {
		if err := validateOriginalURL(req.OriginalURL); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		link.OriginalURL = req.OriginalURL
	}
	if req.Description != nil {
		link.Description = *req.Description
	}

	if err := h.db.WithContext(ctx).Save(link).Error; err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": "Failed to update link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Link updated successfully",
		"link":    h.linkToResponse(*link),
	})
}

// Delete deletes a link
// @Summary Delete a link
// @Description Delete a link by id; only the owner can delete it
// @Tags links
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} map[string]string "Link deleted"
// @Failure 404 {object} map[string]string "Link not found"
// @Security BearerAuth
// @Router /links/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	link, err := h.findOwned(ctx, c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(storeErrorStatus(err), gin.H{"error": "Failed to fetch link"})
		return
	}

	if err := h.db.WithContext(ctx).Delete(link).Error; err != nil {
		c.JSON(storeErrorStatus(err), gin.H{"error": "Failed to delete link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted successfully"})
}

// RegisterRoutes registers link routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/links", h.Create)
	rg.GET("/links", h.List)
	rg.GET("/links/:id", h.Get)
	rg.PUT("/links/:id", h.Update)
	rg.DELETE("/links/:id", h.Delete)
}
