// Package policy computes authorization decisions from the request-scoped
// identity and entity ownership. Decisions are pure functions; handlers pass
// an explicit Identity instead of consulting ambient session state.
package policy

import (
	"warbler/internal/models"
)

// Identity is the authenticated-user identity resolved from the session
// cookie for one request. The zero value is an anonymous request.
type Identity struct {
	UserID        uint
	Authenticated bool
}

// Anonymous returns the identity of an unauthenticated request.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns the identity of a request made by the given user.
func Authenticated(userID uint) Identity {
	return Identity{UserID: userID, Authenticated: true}
}

// RequireAuth is the transition guard applied to every state-mutating or
// profile-revealing operation. Anonymous requests are rejected uniformly,
// never with a not-found outcome.
func RequireAuth(id Identity) error {
	if !id.Authenticated {
		return models.NewUnauthorizedError(models.AccessUnauthorizedMessage)
	}
	return nil
}

// Owns reports whether the identity owns the resource with the given owner.
func Owns(id Identity, ownerID uint) bool {
	return id.Authenticated && id.UserID == ownerID
}

// IsOwnProfile reports whether the identity is viewing their own profile.
// The rendering layer uses this to present the read-only affordance on
// other users' profiles.
func IsOwnProfile(id Identity, profileUserID uint) bool {
	return Owns(id, profileUserID)
}

// CanDeleteMessage checks the ownership guard for message deletion.
func CanDeleteMessage(id Identity, m *models.Message) error {
	if err := RequireAuth(id); err != nil {
		return err
	}
	if !Owns(id, m.UserID) {
		return models.NewUnauthorizedError("You can't delete someone else's message!")
	}
	return nil
}

// CanLikeMessage checks that the identity may like the given message.
// Users may not like their own warbles.
func CanLikeMessage(id Identity, m *models.Message) error {
	if err := RequireAuth(id); err != nil {
		return err
	}
	if Owns(id, m.UserID) {
		return models.NewUnauthorizedError("You can't like your own messages!")
	}
	return nil
}
