package forum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookforum/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// MaxReplyDepth bounds the reply forest to this many levels below any
// thread root.
const MaxReplyDepth = 5

// depthWalkCap hard-caps the ancestor walk as a cycle guard. A well-formed
// tree never needs this many hops.
const depthWalkCap = MaxReplyDepth + 1

// ContentValidator screens reply bodies (length and profanity). The returned
// error message is surfaced verbatim to the caller.
type ContentValidator interface {
	ValidateReplyContent(content string) error
}

// ReplyTreeManager validates and creates replies, enforcing the nesting
// depth limit and keeping the parent post's denormalized aggregates
// (replies_count, last_reply_at, last_reply_id) consistent with the tree.
type ReplyTreeManager struct {
	db        *gorm.DB
	validator ContentValidator
	log       zerolog.Logger
}

// NewReplyTreeManager creates a ReplyTreeManager.
func NewReplyTreeManager(db *gorm.DB, validator ContentValidator, log zerolog.Logger) *ReplyTreeManager {
	return &ReplyTreeManager{db: db, validator: validator, log: log}
}

// CreateReplyInput carries one reply-creation request.
type CreateReplyInput struct {
	PostID        string
	AuthorID      string
	AuthorTier    string
	Content       string
	ParentReplyID *string
}

// CreateReply enforces all structural invariants and commits the new reply
// together with the parent post's aggregates as one atomic unit.
//
// Failure modes: ErrNotFound (post absent, category inactive or hidden from
// the author's tier, parent reply absent or in another post), ErrForbidden
// (post or category locked), *ValidationError (content policy, depth limit),
// ErrInternal (storage failure).
func (m *ReplyTreeManager) CreateReply(ctx context.Context, in CreateReplyInput) (*models.ForumReply, error) {
	var post models.ForumPost
	err := m.db.WithContext(ctx).Preload("Category").First(&post, "id = ?", in.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: loading post: %v", ErrInternal, err)
	}

	// Inactive and tier-hidden categories read as absent so their existence
	// does not leak; locks surface as forbidden.
	if !post.Category.IsActive {
		return nil, ErrNotFound
	}
	if !MeetsMinimumTier(in.AuthorTier, post.Category.MinTier) {
		return nil, ErrNotFound
	}
	if post.IsLocked || post.Category.IsLocked {
		return nil, ErrForbidden
	}

	if err := m.validator.ValidateReplyContent(in.Content); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if in.ParentReplyID != nil {
		var parent models.ForumReply
		err := m.db.WithContext(ctx).
			First(&parent, "id = ? AND post_id = ?", *in.ParentReplyID, in.PostID).Error
		if err != nil {
			// Covers parents in another post and soft-deleted parents alike.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("%w: loading parent reply: %v", ErrInternal, err)
		}

		depth, err := m.chainDepth(ctx, &parent)
		if err != nil {
			return nil, err
		}
		if depth >= MaxReplyDepth {
			return nil, &ValidationError{Message: "maximum reply depth reached"}
		}
	}

	reply := &models.ForumReply{
		PostID:        post.ID,
		UserID:        in.AuthorID,
		Content:       in.Content,
		ParentReplyID: in.ParentReplyID,
	}

	now := time.Now().UTC()
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.ForumPost{}).Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"replies_count": gorm.Expr("replies_count + ?", 1),
				"last_reply_at": now,
				"last_reply_id": reply.ID,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: committing reply: %v", ErrInternal, err)
	}

	event := m.log.Info().
		Str("user_id", in.AuthorID).
		Str("post_id", post.ID).
		Str("reply_id", reply.ID)
	if in.ParentReplyID != nil {
		event = event.Str("parent_reply_id", *in.ParentReplyID)
	}
	event.Msg("reply created")

	if err := m.db.WithContext(ctx).Preload("User").First(reply, "id = ?", reply.ID).Error; err != nil {
		return nil, fmt.Errorf("%w: reloading reply: %v", ErrInternal, err)
	}
	return reply, nil
}

// chainDepth walks the ancestor chain starting at parent, counting one hop
// per ancestor visited including parent itself. The walk stops at a thread
// root, at a dangling ancestor reference, or at the hard cap.
func (m *ReplyTreeManager) chainDepth(ctx context.Context, parent *models.ForumReply) (int, error) {
	depth := 1
	current := parent
	for current.ParentReplyID != nil && depth < depthWalkCap {
		var ancestor models.ForumReply
		err := m.db.WithContext(ctx).First(&ancestor, "id = ?", *current.ParentReplyID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return 0, fmt.Errorf("%w: walking reply chain: %v", ErrInternal, err)
		}
		depth++
		current = &ancestor
	}
	return depth, nil
}
