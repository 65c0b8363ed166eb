package handlers

import (
	"net/http"

	"bookforum/internal/forum"
	"bookforum/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	db *gorm.DB
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// ListCategories returns the active categories visible at the caller's tier
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var categories []models.ForumCategory
	if err := h.db.
		Where("is_active = ?", true).
		Where("min_tier IN ?", forum.VisibleTiers(viewerTier(c))).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
