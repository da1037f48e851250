package authz_test

import (
	"testing"

	"microblog/internal/apperrors"
	"microblog/internal/authz"
	"microblog/internal/models"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestCanUpdateProfile(t *testing.T) {
	identity := &models.User{ID: 1}

	assert.NoError(t, authz.CanUpdateProfile(identity, 1))

	err := authz.CanUpdateProfile(identity, 2)
	var appErr *apperrors.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)

	assert.Error(t, authz.CanUpdateProfile(nil, 1))
}

func TestCanDeleteProfile(t *testing.T) {
	identity := &models.User{ID: 1}
	assert.NoError(t, authz.CanDeleteProfile(identity, 1))
	assert.Error(t, authz.CanDeleteProfile(identity, 2))
}

func TestCanCreatePost(t *testing.T) {
	identity := &models.User{ID: 1}

	assert.NoError(t, authz.CanCreatePost(identity, 1, uintPtr(1)))

	// A payload without user_id fails with a 400 before any ownership check,
	// even on someone else's collection.
	err := authz.CanCreatePost(identity, 2, nil)
	assert.ErrorIs(t, err, apperrors.ErrUserIDFieldMissing)

	// With the field present, ownership of the route gives a 403.
	var appErr *apperrors.Error
	err = authz.CanCreatePost(identity, 2, uintPtr(1))
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)

	// As does a payload user_id that names someone else.
	err = authz.CanCreatePost(identity, 1, uintPtr(100))
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestCanUpdatePost(t *testing.T) {
	identity := &models.User{ID: 1}
	ownPost := &models.Post{ID: 10, UserID: 1}
	otherPost := &models.Post{ID: 11, UserID: 2}

	assert.NoError(t, authz.CanUpdatePost(identity, ownPost, nil))
	assert.NoError(t, authz.CanUpdatePost(identity, ownPost, uintPtr(1)))

	// The stored author decides, not the route or payload.
	assert.Error(t, authz.CanUpdatePost(identity, otherPost, nil))
	// A payload user_id that contradicts the author is rejected.
	assert.Error(t, authz.CanUpdatePost(identity, ownPost, uintPtr(2)))
}

func TestCanDeletePost(t *testing.T) {
	identity := &models.User{ID: 1}
	assert.NoError(t, authz.CanDeletePost(identity, &models.Post{ID: 10, UserID: 1}))
	assert.Error(t, authz.CanDeletePost(identity, &models.Post{ID: 11, UserID: 2}))
	assert.Error(t, authz.CanDeletePost(nil, &models.Post{ID: 10, UserID: 1}))
}
