package handlers

import (
	"encoding/json"
	"net/http"

	"bookforum/internal/cache"
	"bookforum/internal/forum"
	"bookforum/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PostHandler handles post-related requests
type PostHandler struct {
	db    *gorm.DB
	cache *cache.ResponseCache
	log   zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(db *gorm.DB, cache *cache.ResponseCache, log zerolog.Logger) *PostHandler {
	return &PostHandler{db: db, cache: cache, log: log}
}

// viewerTier resolves the caller's subscription tier; anonymous callers
// browse at FREE.
func viewerTier(c *gin.Context) string {
	if tier := c.GetString("tier"); tier != "" {
		return tier
	}
	return forum.TierFree
}

// ListPosts returns paginated, sorted posts filtered by the normalized
// query parameters. Responses are served from the TTL cache when possible.
func (h *PostHandler) ListPosts(c *gin.Context) {
	q := forum.ParseListPostsQuery(c.Request.URL.Query())
	q.ViewerTier = viewerTier(c)

	key := forum.BuildPostsCacheKey(q)
	if raw, ok := h.cache.Get(key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	query := h.db.Model(&models.ForumPost{}).
		Joins("JOIN forum_categories ON forum_categories.id = forum_posts.category_id").
		Where("forum_categories.is_active = ?", true).
		Where("forum_categories.min_tier IN ?", forum.VisibleTiers(q.ViewerTier)).
		Preload("User").Preload("Category")

	// Apply filters
	if q.CategoryID != "" {
		query = query.Where("forum_posts.category_id = ?", q.CategoryID)
	}
	if q.CategorySlug != "" {
		query = query.Where("forum_categories.slug = ?", q.CategorySlug)
	}
	if q.BookID != "" {
		query = query.Where("forum_posts.book_id = ?", q.BookID)
	}
	if q.Search != "" {
		query = query.Where("forum_posts.title LIKE ? OR forum_posts.content LIKE ?",
			"%"+q.Search+"%", "%"+q.Search+"%")
	}
	if q.IsPinned != nil {
		query = query.Where("forum_posts.is_pinned = ?", *q.IsPinned)
	}
	if q.IsFeatured != nil {
		query = query.Where("forum_posts.is_featured = ?", *q.IsFeatured)
	}
	if q.IsAnswered != nil {
		query = query.Where("forum_posts.is_answered = ?", *q.IsAnswered)
	}
	if q.SortBy == forum.SortUnanswered {
		query = query.Where("forum_posts.replies_count = ?", 0)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count posts"})
		return
	}

	offset := (q.Page - 1) * q.Limit
	order := forum.OrderClause(forum.BuildOrderBy(q.SortBy))

	var posts []models.ForumPost
	if err := query.Order(order).Limit(q.Limit).Offset(offset).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch posts"})
		return
	}

	body := gin.H{
		"posts":      posts,
		"pagination": forum.CalculatePagination(q.Page, q.Limit, total),
	}

	raw, err := json.Marshal(body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode posts"})
		return
	}
	if err := h.cache.Set(key, raw); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("failed to cache post listing")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// GetPost returns a single post by ID and bumps its view counter
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.ForumPost
	if err := h.db.Preload("User").Preload("Category").First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	tier := viewerTier(c)
	if !post.Category.IsActive || !forum.MeetsMinimumTier(tier, post.Category.MinTier) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	if err := h.db.Model(&post).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		h.log.Warn().Err(err).Str("post_id", post.ID).Msg("failed to bump view count")
	} else {
		post.ViewCount++
	}

	c.JSON(http.StatusOK, post)
}
