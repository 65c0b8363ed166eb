package models

import (
	"time"

	"gorm.io/gorm"
)

// ForumCategory represents a discussion area. Categories are owned by forum
// administration; this service reads them but never mutates them.
type ForumCategory struct {
	ID       string `gorm:"primaryKey;size:25" json:"id"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Name     string `gorm:"not null" json:"name"`
	Color    string `json:"color"`
	MinTier  string `gorm:"not null;default:FREE" json:"min_tier"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
	IsLocked bool   `gorm:"not null;default:false" json:"is_locked"`
}

func (c *ForumCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

// ForumPost represents a flat discussion post. RepliesCount, LastReplyAt and
// LastReplyID are denormalized aggregates owned by the reply tree manager:
// they must always reflect the non-deleted replies under the post. Vote
// columns are maintained by the voting service.
type ForumPost struct {
	ID           string         `gorm:"primaryKey;size:25" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Content      string         `gorm:"not null" json:"content"`
	CategoryID   string         `gorm:"not null;index" json:"category_id"`
	UserID       string         `gorm:"not null;index" json:"user_id"`
	BookID       *string        `gorm:"size:25" json:"book_id,omitempty"`
	IsPinned     bool           `gorm:"not null;default:false" json:"is_pinned"`
	IsLocked     bool           `gorm:"not null;default:false" json:"is_locked"`
	IsFeatured   bool           `gorm:"not null;default:false" json:"is_featured"`
	IsAnswered   bool           `gorm:"not null;default:false" json:"is_answered"`
	Upvotes      int            `gorm:"not null;default:0" json:"upvotes"`
	Downvotes    int            `gorm:"not null;default:0" json:"downvotes"`
	VoteScore    int            `gorm:"not null;default:0" json:"vote_score"`
	ViewCount    int            `gorm:"not null;default:0" json:"view_count"`
	RepliesCount int            `gorm:"not null;default:0" json:"replies_count"`
	LastReplyAt  *time.Time     `json:"last_reply_at,omitempty"`
	LastReplyID  *string        `gorm:"size:25" json:"last_reply_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	User         User           `gorm:"foreignKey:UserID" json:"user"`
	Category     ForumCategory  `gorm:"foreignKey:CategoryID" json:"category"`
}

func (p *ForumPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// ForumReply represents one node of a post's reply forest. ParentReplyID is
// nil for thread roots and must otherwise reference a non-deleted reply under
// the same post. A reply is never structurally mutated after creation.
type ForumReply struct {
	ID            string         `gorm:"primaryKey;size:25" json:"id"`
	PostID        string         `gorm:"not null;index" json:"post_id"`
	UserID        string         `gorm:"not null;index" json:"user_id"`
	Content       string         `gorm:"not null" json:"content"`
	ParentReplyID *string        `gorm:"size:25;index" json:"parent_reply_id,omitempty"`
	Upvotes       int            `gorm:"not null;default:0" json:"upvotes"`
	Downvotes     int            `gorm:"not null;default:0" json:"downvotes"`
	VoteScore     int            `gorm:"not null;default:0" json:"vote_score"`
	IsBestAnswer  bool           `gorm:"not null;default:false" json:"is_best_answer"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	User          User           `gorm:"foreignKey:UserID" json:"user"`
	Replies       []ForumReply   `gorm:"foreignKey:ParentReplyID" json:"replies,omitempty"`
}

func (r *ForumReply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}

// CreateReplyRequest represents the request body for creating a reply
type CreateReplyRequest struct {
	Content       string  `json:"content" binding:"required"`
	ParentReplyID *string `json:"parent_reply_id"`
}
