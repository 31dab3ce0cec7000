package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	"smrutimap/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	env := newHTTPEnv(t, 0)

	t.Run("Sign up successfully", func(t *testing.T) {
		w := env.postForm(t, "/auth/signup", url.Values{
			"username": {"alice"},
			"email":    {"alice@example.com"},
			"password": {"testpass123"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decode(t, w)
		assert.Equal(t, "alice", body["username"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("Sign up with existing username", func(t *testing.T) {
		w := env.postForm(t, "/auth/signup", url.Values{
			"username": {"alice"},
			"email":    {"alice2@example.com"},
			"password": {"testpass123"},
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Sign up with bad username", func(t *testing.T) {
		w := env.postForm(t, "/auth/signup", url.Values{
			"username": {"a!"},
			"email":    {"short@example.com"},
			"password": {"testpass123"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Sign up with short password", func(t *testing.T) {
		w := env.postForm(t, "/auth/signup", url.Values{
			"username": {"bob"},
			"email":    {"bob@example.com"},
			"password": {"123"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Sign up without email", func(t *testing.T) {
		w := env.postForm(t, "/auth/signup", url.Values{
			"username": {"carol"},
			"email":    {"not-an-email"},
			"password": {"testpass123"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	env := newHTTPEnv(t, 0)
	env.signUp(t, "alice")

	t.Run("Login successfully", func(t *testing.T) {
		w := env.postForm(t, "/auth/login", url.Values{
			"username": {"alice"},
			"password": {"testpass123"},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decode(t, w)
		assert.Equal(t, "alice", body["username"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("Login with empty fields", func(t *testing.T) {
		w := env.postForm(t, "/auth/login", url.Values{
			"username": {""},
			"password": {""},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Parameters can't be empty", decode(t, w)["error"])
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		w := env.postForm(t, "/auth/login", url.Values{
			"username": {"alice"},
			"password": {"wrongpassword"},
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Login with unknown user", func(t *testing.T) {
		w := env.postForm(t, "/auth/login", url.Values{
			"username": {"nobody"},
			"password": {"testpass123"},
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMe(t *testing.T) {
	env := newHTTPEnv(t, 0)
	token := env.signUp(t, "alice")

	t.Run("Token owner sees their account", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decode(t, w)
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "alice@example.com", body["email"])
		assert.NotContains(t, body, "password_hash")
	})

	t.Run("Guest sessions are not accounts", func(t *testing.T) {
		_, cookies := env.startGuest(t)
		w := env.do(t, http.MethodGet, "/auth/me", "", nil, cookies...)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Anonymous is rejected", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGuestSession(t *testing.T) {
	env := newHTTPEnv(t, 3)

	guestID, cookies := env.startGuest(t)
	assert.True(t, utils.ValidGuestID(guestID), "minted id %q", guestID)

	t.Run("Replaying the cookie keeps the same id", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/auth/guest", "", nil, cookies...)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, guestID, decode(t, w)["guest_id"])
	})

	t.Run("Guest cookie opens the game surface", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/rooms", "", nil, cookies...)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "guest:"+guestID, decode(t, w)["host_key"])
	})

	t.Run("Fresh sessions get distinct ids", func(t *testing.T) {
		other, _ := env.startGuest(t)
		assert.NotEqual(t, guestID, other)
	})
}
