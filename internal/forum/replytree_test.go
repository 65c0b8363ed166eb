package forum

import (
	"context"
	"testing"

	"bookforum/internal/content"
	"bookforum/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReplyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ForumCategory{},
		&models.ForumPost{},
		&models.ForumReply{},
	))
	return db
}

func newTestManager(db *gorm.DB) *ReplyTreeManager {
	return NewReplyTreeManager(db, content.NewValidator(), zerolog.Nop())
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:    username,
		DisplayName: username,
		Email:       username + "@example.com",
		Password:    "irrelevant",
		Tier:        TierFree,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, mutate func(*models.ForumCategory)) models.ForumCategory {
	t.Helper()
	category := models.ForumCategory{
		Slug:     "general-" + models.NewID()[1:9],
		Name:     "General",
		MinTier:  TierFree,
		IsActive: true,
	}
	if mutate != nil {
		mutate(&category)
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedPost(t *testing.T, db *gorm.DB, user models.User, category models.ForumCategory, mutate func(*models.ForumPost)) models.ForumPost {
	t.Helper()
	post := models.ForumPost{
		Title:      "What did everyone think of the ending?",
		Content:    "No spoilers in the title, all spoilers below.",
		CategoryID: category.ID,
		UserID:     user.ID,
	}
	if mutate != nil {
		mutate(&post)
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func TestCreateReplyIncrementsAggregates(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, nil)
	post := seedPost(t, db, user, category, nil)

	reply, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID:     post.ID,
		AuthorID:   user.ID,
		AuthorTier: TierFree,
		Content:    "Completely agree about the last chapter.",
	})
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.NotEmpty(t, reply.ID)
	assert.Nil(t, reply.ParentReplyID)
	assert.Equal(t, 0, reply.Upvotes)
	assert.Equal(t, 0, reply.Downvotes)
	assert.Equal(t, 0, reply.VoteScore)
	assert.Equal(t, "reader", reply.User.Username)

	var reloaded models.ForumPost
	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 1, reloaded.RepliesCount)
	require.NotNil(t, reloaded.LastReplyID)
	assert.Equal(t, reply.ID, *reloaded.LastReplyID)
	assert.NotNil(t, reloaded.LastReplyAt)
}

func TestCreateReplyUpdatesLastReplyPointer(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, nil)
	post := seedPost(t, db, user, category, nil)

	first, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "First reply.",
	})
	require.NoError(t, err)
	second, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "Second reply.",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	var reloaded models.ForumPost
	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 2, reloaded.RepliesCount)
	require.NotNil(t, reloaded.LastReplyID)
	assert.Equal(t, second.ID, *reloaded.LastReplyID)
}

func TestCreateReplyPostNotFound(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")

	_, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: models.NewID(), AuthorID: user.ID, AuthorTier: TierFree, Content: "Hello?",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReplyLockedPost(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, nil)
	post := seedPost(t, db, user, category, func(p *models.ForumPost) { p.IsLocked = true })

	_, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "Too late.",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateReplyLockedCategory(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, func(c *models.ForumCategory) { c.IsLocked = true })
	post := seedPost(t, db, user, category, nil)

	_, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "Too late.",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateReplyInactiveCategoryReadsAsAbsent(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, func(c *models.ForumCategory) {
		c.IsActive = false
		c.IsLocked = true
	})
	post := seedPost(t, db, user, category, nil)

	// Inactive wins over locked so the category's existence does not leak.
	_, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "Anyone here?",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReplyTierGatedCategoryReadsAsAbsent(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, func(c *models.ForumCategory) { c.MinTier = TierScholar })
	post := seedPost(t, db, user, category, nil)

	_, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "Anyone here?",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierScholar, Content: "Scholars only.",
	})
	assert.NoError(t, err)
}

func TestCreateReplyParentInDifferentPost(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, nil)
	postA := seedPost(t, db, user, category, nil)
	postB := seedPost(t, db, user, category, nil)

	parent, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: postA.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "On post A.",
	})
	require.NoError(t, err)

	_, err = manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: postB.ID, AuthorID: user.ID, AuthorTier: TierFree,
		Content: "Replying across posts.", ParentReplyID: &parent.ID,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReplyDeletedParent(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, nil)
	post := seedPost(t, db, user, category, nil)

	parent, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "Soon gone.",
	})
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.ForumReply{}, "id = ?", parent.ID).Error)

	_, err = manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree,
		Content: "Replying to a ghost.", ParentReplyID: &parent.ID,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReplyDepthLimit(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, nil)
	post := seedPost(t, db, user, category, nil)

	// Build a chain of MaxReplyDepth replies, each parented to the previous.
	chain := make([]*models.ForumReply, 0, MaxReplyDepth)
	var parentID *string
	for i := 0; i < MaxReplyDepth; i++ {
		reply, err := manager.CreateReply(context.Background(), CreateReplyInput{
			PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree,
			Content: "Going deeper.", ParentReplyID: parentID,
		})
		require.NoError(t, err)
		chain = append(chain, reply)
		parentID = &reply.ID
	}

	// Attaching below the deepest reply exceeds the depth bound.
	_, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree,
		Content: "One too far.", ParentReplyID: &chain[MaxReplyDepth-1].ID,
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "maximum reply depth reached", vErr.Message)

	// Attaching one level up is still allowed.
	_, err = manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree,
		Content: "Still in bounds.", ParentReplyID: &chain[MaxReplyDepth-2].ID,
	})
	assert.NoError(t, err)
}

func TestCreateReplyContentValidation(t *testing.T) {
	db := setupReplyTestDB(t)
	manager := newTestManager(db)
	user := seedUser(t, db, "reader")
	category := seedCategory(t, db, nil)
	post := seedPost(t, db, user, category, nil)

	var vErr *ValidationError

	_, err := manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "   ",
	})
	require.ErrorAs(t, err, &vErr)

	_, err = manager.CreateReply(context.Background(), CreateReplyInput{
		PostID: post.ID, AuthorID: user.ID, AuthorTier: TierFree, Content: "what a shit ending",
	})
	require.ErrorAs(t, err, &vErr)

	// Rejected replies leave the post's aggregates untouched.
	var reloaded models.ForumPost
	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 0, reloaded.RepliesCount)
	assert.Nil(t, reloaded.LastReplyID)
}
