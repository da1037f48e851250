package repositories_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"microblog/internal/models"
	"microblog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// setupDB opens a fresh named in-memory database. The shared cache keeps all
// pooled connections on the same database.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Follow{}))
	return db
}

func seedUser(t *testing.T, repo repositories.UserRepository, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		LastSeen:     time.Now().UTC(),
	}
	assert.NoError(t, repo.Create(user))
	return user
}

func TestFollowRepository_Idempotence(t *testing.T) {
	db := setupDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	followRepo := repositories.NewGORMFollowRepository(db)

	john := seedUser(t, userRepo, "john")
	susan := seedUser(t, userRepo, "susan")

	// Following twice leaves a single edge.
	assert.NoError(t, followRepo.Follow(john.ID, susan.ID))
	assert.NoError(t, followRepo.Follow(john.ID, susan.ID))

	following, err := followRepo.IsFollowing(john.ID, susan.ID)
	assert.NoError(t, err)
	assert.True(t, following)

	count, err := followRepo.CountFollowed(john.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = followRepo.CountFollowers(susan.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The edge is directed: susan does not follow john.
	following, err = followRepo.IsFollowing(susan.ID, john.ID)
	assert.NoError(t, err)
	assert.False(t, following)

	// Unfollowing twice is equally harmless.
	assert.NoError(t, followRepo.Unfollow(john.ID, susan.ID))
	assert.NoError(t, followRepo.Unfollow(john.ID, susan.ID))

	following, err = followRepo.IsFollowing(john.ID, susan.ID)
	assert.NoError(t, err)
	assert.False(t, following)
}

func TestFollowRepository_FollowersAndFollowed(t *testing.T) {
	db := setupDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	followRepo := repositories.NewGORMFollowRepository(db)

	john := seedUser(t, userRepo, "john")
	susan := seedUser(t, userRepo, "susan")
	mary := seedUser(t, userRepo, "mary")

	assert.NoError(t, followRepo.Follow(susan.ID, john.ID))
	assert.NoError(t, followRepo.Follow(mary.ID, john.ID))
	assert.NoError(t, followRepo.Follow(john.ID, susan.ID))

	followers, total, err := followRepo.Followers(john.ID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	names := []string{followers[0].Username, followers[1].Username}
	assert.ElementsMatch(t, []string{"susan", "mary"}, names)

	followed, total, err := followRepo.Followed(john.ID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "susan", followed[0].Username)
}

func TestPostRepository_FollowedPostsOrdering(t *testing.T) {
	db := setupDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)
	followRepo := repositories.NewGORMFollowRepository(db)

	john := seedUser(t, userRepo, "john")
	susan := seedUser(t, userRepo, "susan")
	mary := seedUser(t, userRepo, "mary")
	david := seedUser(t, userRepo, "david")

	now := time.Now().UTC()
	p1 := &models.Post{Body: "post from john", UserID: john.ID, Timestamp: now.Add(1 * time.Second)}
	p2 := &models.Post{Body: "post from susan", UserID: susan.ID, Timestamp: now.Add(4 * time.Second)}
	p3 := &models.Post{Body: "post from mary", UserID: mary.ID, Timestamp: now.Add(3 * time.Second)}
	p4 := &models.Post{Body: "post from david", UserID: david.ID, Timestamp: now.Add(2 * time.Second)}
	for _, p := range []*models.Post{p1, p2, p3, p4} {
		assert.NoError(t, postRepo.Create(p))
	}

	assert.NoError(t, followRepo.Follow(john.ID, susan.ID))
	assert.NoError(t, followRepo.Follow(john.ID, david.ID))
	assert.NoError(t, followRepo.Follow(susan.ID, mary.ID))
	assert.NoError(t, followRepo.Follow(mary.ID, david.ID))

	bodies := func(posts []models.Post) []string {
		out := make([]string, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.Body)
		}
		return out
	}

	// Own posts plus followed authors', newest first.
	feed, total, err := postRepo.FollowedPosts(john.ID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"post from susan", "post from david", "post from john"}, bodies(feed))

	feed, _, err = postRepo.FollowedPosts(susan.ID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, []string{"post from susan", "post from mary"}, bodies(feed))

	feed, _, err = postRepo.FollowedPosts(mary.ID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, []string{"post from mary", "post from david"}, bodies(feed))

	feed, _, err = postRepo.FollowedPosts(david.ID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, []string{"post from david"}, bodies(feed))
}

func TestPostRepository_TimestampTieBrokenByID(t *testing.T) {
	db := setupDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)

	john := seedUser(t, userRepo, "john")

	ts := time.Now().UTC().Truncate(time.Second)
	first := &models.Post{Body: "first", UserID: john.ID, Timestamp: ts}
	second := &models.Post{Body: "second", UserID: john.ID, Timestamp: ts}
	assert.NoError(t, postRepo.Create(first))
	assert.NoError(t, postRepo.Create(second))

	posts, _, err := postRepo.ListByUser(john.ID, 1, 10)
	assert.NoError(t, err)
	// Equal timestamps fall back to ID descending.
	assert.Equal(t, "second", posts[0].Body)
	assert.Equal(t, "first", posts[1].Body)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := setupDB(t)
	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)
	followRepo := repositories.NewGORMFollowRepository(db)

	john := seedUser(t, userRepo, "john")
	susan := seedUser(t, userRepo, "susan")

	post := &models.Post{Body: "bye", UserID: john.ID, Timestamp: time.Now().UTC()}
	assert.NoError(t, postRepo.Create(post))
	assert.NoError(t, followRepo.Follow(john.ID, susan.ID))
	assert.NoError(t, followRepo.Follow(susan.ID, john.ID))

	assert.NoError(t, userRepo.Delete(john.ID))

	gone, err := userRepo.GetByID(john.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)

	orphan, err := postRepo.GetByID(post.ID)
	assert.NoError(t, err)
	assert.Nil(t, orphan)

	count, err := followRepo.CountFollowers(susan.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
	count, err = followRepo.CountFollowed(susan.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUserRepository_Lookups(t *testing.T) {
	db := setupDB(t)
	userRepo := repositories.NewGORMUserRepository(db)

	john := seedUser(t, userRepo, "john")
	token := "tok-123"
	john.Token = &token
	assert.NoError(t, userRepo.Update(john))

	byName, err := userRepo.GetByUsername("john")
	assert.NoError(t, err)
	assert.Equal(t, john.ID, byName.ID)

	// Case-sensitive as stored.
	missing, err := userRepo.GetByUsername("John")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	byToken, err := userRepo.GetByToken("tok-123")
	assert.NoError(t, err)
	assert.Equal(t, john.ID, byToken.ID)

	byEmail, err := userRepo.GetByEmail("john@example.com")
	assert.NoError(t, err)
	assert.Equal(t, john.ID, byEmail.ID)
}
