package services_test

import (
	"testing"
	"time"

	"microblog/internal/apperrors"
	"microblog/internal/models"
	"microblog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPostService_Create(t *testing.T) {
	mockPosts := new(MockPostRepository)
	postService := services.NewPostService(mockPosts, nil)

	body := "Test message"
	mockPosts.On("Create", mock.AnythingOfType("*models.Post")).Return(nil).Once()

	post, err := postService.Create(1, &models.CreatePostRequest{Body: &body, Language: "en"})
	assert.NoError(t, err)
	assert.Equal(t, "Test message", post.Body)
	assert.Equal(t, uint(1), post.UserID)
	assert.Equal(t, "en", post.Language)
	assert.WithinDuration(t, time.Now().UTC(), post.Timestamp, 5*time.Second)
	mockPosts.AssertExpectations(t)
}

func TestPostService_Create_BodyRequired(t *testing.T) {
	mockPosts := new(MockPostRepository)
	postService := services.NewPostService(mockPosts, nil)

	_, err := postService.Create(1, &models.CreatePostRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPostBodyMissing)

	empty := ""
	_, err = postService.Create(1, &models.CreatePostRequest{Body: &empty})
	assert.ErrorIs(t, err, apperrors.ErrPostBodyMissing)
	mockPosts.AssertNotCalled(t, "Create", mock.Anything)
}

func TestPostService_Update(t *testing.T) {
	mockPosts := new(MockPostRepository)
	postService := services.NewPostService(mockPosts, nil)

	post := &models.Post{ID: 3, Body: "old", UserID: 1, Language: "en"}

	empty := ""
	err := postService.Update(post, &models.CreatePostRequest{Body: &empty})
	assert.ErrorIs(t, err, apperrors.ErrPostBodyMissing)
	assert.Equal(t, "old", post.Body)

	body := "new body"
	mockPosts.On("Update", post).Return(nil).Once()
	err = postService.Update(post, &models.CreatePostRequest{Body: &body})
	assert.NoError(t, err)
	assert.Equal(t, "new body", post.Body)
	// The author never changes on update.
	assert.Equal(t, uint(1), post.UserID)
	mockPosts.AssertExpectations(t)
}

func TestPostService_Get_NotFound(t *testing.T) {
	mockPosts := new(MockPostRepository)
	postService := services.NewPostService(mockPosts, nil)

	mockPosts.On("GetByID", uint(100)).Return(nil, nil).Once()
	_, err := postService.Get(100)
	var appErr *apperrors.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	mockPosts.AssertExpectations(t)
}
