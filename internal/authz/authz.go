// Package authz holds the capability predicates evaluated between
// authentication and the handlers. Each check is an independent function over
// (authenticated identity, target resource, request payload); they share a
// single ownership helper instead of inheriting from each other.
package authz

import (
	"microblog/internal/apperrors"
	"microblog/internal/models"
)

func isProfileOwner(identity *models.User, userID uint) bool {
	return identity != nil && identity.ID == userID
}

// CanUpdateProfile allows a user to update only their own profile.
func CanUpdateProfile(identity *models.User, targetUserID uint) error {
	if !isProfileOwner(identity, targetUserID) {
		return apperrors.Authorization("")
	}
	return nil
}

// CanDeleteProfile follows the same rule as CanUpdateProfile.
func CanDeleteProfile(identity *models.User, targetUserID uint) error {
	return CanUpdateProfile(identity, targetUserID)
}

// CanCreatePost allows posting under a user's collection only when the
// payload names that same user as owner. The field-presence check runs before
// the ownership checks: a payload without user_id is a 400, not a 403.
func CanCreatePost(identity *models.User, routeUserID uint, payloadUserID *uint) error {
	if payloadUserID == nil {
		return apperrors.ErrUserIDFieldMissing
	}
	if !isProfileOwner(identity, routeUserID) {
		return apperrors.Authorization("")
	}
	if *payloadUserID != identity.ID {
		return apperrors.Authorization("")
	}
	return nil
}

// CanUpdatePost allows updating a post only by its stored author. A payload
// user_id, when present, must also match the author; the author is immutable.
func CanUpdatePost(identity *models.User, post *models.Post, payloadUserID *uint) error {
	if !isProfileOwner(identity, post.UserID) {
		return apperrors.Authorization("")
	}
	if payloadUserID != nil && *payloadUserID != post.UserID {
		return apperrors.Authorization("")
	}
	return nil
}

// CanDeletePost allows deleting a post only by its stored author.
func CanDeletePost(identity *models.User, post *models.Post) error {
	if !isProfileOwner(identity, post.UserID) {
		return apperrors.Authorization("")
	}
	return nil
}
