package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserProfileOwnVsOther(t *testing.T) {
	_, app := newTestServer(t)
	alice := signupUser(t, app, "alice")
	signupUser(t, app, "bob")

	resp := doJSON(t, app, http.MethodGet, "/api/users/1", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, true, body["is_own_profile"])
	assert.NotContains(t, body, "is_following")

	resp = doJSON(t, app, http.MethodGet, "/api/users/2", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, false, body["is_own_profile"])
	assert.Equal(t, false, body["is_following"])
	assert.Equal(t, false, body["is_followed_by"])
}

func TestGetUserProfileMissing(t *testing.T) {
	_, app := newTestServer(t)
	alice := signupUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodGet, "/api/users/999", nil, alice)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserListingsMissingUser(t *testing.T) {
	_, app := newTestServer(t)
	alice := signupUser(t, app, "alice")

	for _, path := range []string{
		"/api/users/999/messages",
		"/api/users/999/likes",
		"/api/users/999/followers",
		"/api/users/999/following",
	} {
		resp := doJSON(t, app, http.MethodGet, path, nil, alice)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		_ = resp.Body.Close()
	}
}

func TestFollowUnfollowFlow(t *testing.T) {
	_, app := newTestServer(t)
	alice := signupUser(t, app, "alice")
	bob := signupUser(t, app, "bob")

	// Follow, twice: the second is a no-op, not an error.
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/users/2/follow", nil, alice)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "follow attempt %d", i)
		_ = resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/users/2", nil, alice)
	body := decodeBody(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, true, body["is_following"])
	assert.Equal(t, false, body["is_followed_by"])

	// Direction matters: bob sees alice as a follower, not a followee.
	resp = doJSON(t, app, http.MethodGet, "/api/users/1", nil, bob)
	body = decodeBody(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, false, body["is_following"])
	assert.Equal(t, true, body["is_followed_by"])

	resp = doJSON(t, app, http.MethodGet, "/api/users/2/followers", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// Unfollow, twice: idempotent as well.
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, http.MethodDelete, "/api/users/2/follow", nil, alice)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "unfollow attempt %d", i)
		_ = resp.Body.Close()
	}

	resp = doJSON(t, app, http.MethodGet, "/api/users/2", nil, alice)
	body = decodeBody(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, false, body["is_following"])
}

func TestFollowSelfRejected(t *testing.T) {
	_, app := newTestServer(t)
	alice := signupUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/users/1/follow", nil, alice)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFollowMissingUser(t *testing.T) {
	_, app := newTestServer(t)
	alice := signupUser(t, app, "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/users/999/follow", nil, alice)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateMyProfile(t *testing.T) {
	_, app := newTestServer(t)
	alice := signupUser(t, app, "alice")

	// Wrong password: edit rejected.
	resp := doJSON(t, app, http.MethodPut, "/api/users/me", map[string]string{
		"password": "wrongpass",
		"bio":      "birdwatcher",
	}, alice)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, "Incorrect password.", body["error"])

	resp = doJSON(t, app, http.MethodPut, "/api/users/me", map[string]string{
		"password": "password123",
		"bio":      "birdwatcher",
		"location": "the marsh",
	}, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, "birdwatcher", body["bio"])
	assert.Equal(t, "the marsh", body["location"])
}

func TestDeleteMyAccount(t *testing.T) {
	srv, app := newTestServer(t)
	alice := signupUser(t, app, "alice")
	bob := signupUser(t, app, "bob")

	// Alice posts a message and follows bob before deleting her account.
	resp := doJSON(t, app, http.MethodPost, "/api/messages", map[string]string{
		"text": "goodbye cruel world",
	}, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/users/2/follow", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/users/me", nil, alice)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	// The session naming the deleted user now resolves to anonymous.
	resp = doJSON(t, app, http.MethodGet, "/api/users/me", nil, alice)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	// Owned rows are gone.
	var msgCount, followCount int64
	srv.db.Table("messages").Count(&msgCount)
	srv.db.Table("follows").Count(&followCount)
	assert.Zero(t, msgCount)
	assert.Zero(t, followCount)

	// Bob is untouched.
	resp = doJSON(t, app, http.MethodGet, "/api/users/me", nil, bob)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetAllUsersSearch(t *testing.T) {
	_, app := newTestServer(t)
	alice := signupUser(t, app, "alice")
	signupUser(t, app, "bob")
	signupUser(t, app, "alicia")

	resp := doJSON(t, app, http.MethodGet, "/api/users?q=ali", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []map[string]interface{}
	require.NoError(t, decodeJSONList(resp, &users))
	_ = resp.Body.Close()
	assert.Len(t, users, 2)
}
