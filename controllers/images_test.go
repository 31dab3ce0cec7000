package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextImageDrainsThePool(t *testing.T) {
	env := newHTTPEnv(t, 4)
	_, cookies := env.startGuest(t)

	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		w := env.do(t, http.MethodGet, "/images/next", "", nil, cookies...)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		img := decode(t, w)
		id, _ := img["id"].(string)
		assert.NotEmpty(t, id)
		assert.NotEmpty(t, img["url"])
		assert.False(t, seen[id], "image %s repeated inside one pool cycle", id)
		seen[id] = true
	}

	// Exhausted pools refresh silently
	w := env.do(t, http.MethodGet, "/images/next", "", nil, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["id"])
}

func TestGameImagesBatch(t *testing.T) {
	env := newHTTPEnv(t, 6)
	token := env.signUp(t, "alice")

	w := env.do(t, http.MethodGet, "/images/game?count=3", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var images []map[string]interface{}
	decodeInto(t, w, &images)
	require.Len(t, images, 3)

	distinct := make(map[string]bool)
	for _, img := range images {
		distinct[img["id"].(string)] = true
	}
	assert.Len(t, distinct, 3)

	t.Run("Count beyond the catalog returns the catalog", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/images/game?count=18", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var batch []map[string]interface{}
		decodeInto(t, w, &batch)
		assert.Len(t, batch, 6)
	})

	t.Run("Bad counts are 400", func(t *testing.T) {
		for _, q := range []string{"count=0", "count=-2", "count=many"} {
			w := env.do(t, http.MethodGet, "/images/game?"+q, token, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
	})
}

func TestResetPool(t *testing.T) {
	env := newHTTPEnv(t, 3)
	token := env.signUp(t, "alice")

	w := env.do(t, http.MethodGet, "/images/next", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/images/pool/reset", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pool reset", decode(t, w)["message"])

	// The full catalog is available again after a reset
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		w = env.do(t, http.MethodGet, "/images/next", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		seen[decode(t, w)["id"].(string)] = true
	}
	assert.Len(t, seen, 3)
}
