package handlers

import (
	"errors"
	"net/http"

	"bookforum/internal/forum"
	"bookforum/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReplyHandler handles reply-related requests
type ReplyHandler struct {
	db      *gorm.DB
	manager *forum.ReplyTreeManager
}

// NewReplyHandler creates a new ReplyHandler
func NewReplyHandler(db *gorm.DB, manager *forum.ReplyTreeManager) *ReplyHandler {
	return &ReplyHandler{db: db, manager: manager}
}

// CreateReply creates a new reply under a post, optionally nested under a
// parent reply
func (h *ReplyHandler) CreateReply(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.manager.CreateReply(c.Request.Context(), forum.CreateReplyInput{
		PostID:        c.Param("id"),
		AuthorID:      userID,
		AuthorTier:    viewerTier(c),
		Content:       req.Content,
		ParentReplyID: req.ParentReplyID,
	})
	if err != nil {
		respondReplyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

func respondReplyError(c *gin.Context, err error) {
	var vErr *forum.ValidationError
	switch {
	case errors.Is(err, forum.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post or parent reply not found"})
	case errors.Is(err, forum.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "post is locked"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reply"})
	}
}

// ListReplies returns a post's reply forest: thread roots in creation order
// with nested children down to the depth limit
func (h *ReplyHandler) ListReplies(c *gin.Context) {
	postID := c.Param("id")

	var post models.ForumPost
	if err := h.db.Preload("Category").First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	tier := viewerTier(c)
	if !post.Category.IsActive || !forum.MeetsMinimumTier(tier, post.Category.MinTier) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	var replies []models.ForumReply
	if err := h.db.Where("post_id = ? AND parent_reply_id IS NULL", postID).
		Preload("User").
		Preload("Replies").
		Preload("Replies.User").
		Preload("Replies.Replies").
		Preload("Replies.Replies.User").
		Preload("Replies.Replies.Replies").
		Preload("Replies.Replies.Replies.User").
		Preload("Replies.Replies.Replies.Replies").
		Preload("Replies.Replies.Replies.Replies.User").
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch replies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"replies": replies})
}
