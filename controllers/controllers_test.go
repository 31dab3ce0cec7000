package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"smrutimap/config"
	"smrutimap/middleware"
	"smrutimap/models/postgres"
	"smrutimap/routes"
	"smrutimap/services/catalog"
	"smrutimap/services/imagepool"
	"smrutimap/services/rooms"
	"smrutimap/services/scoring"
	"smrutimap/services/storage"
	"smrutimap/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// httpEnv runs the real router against sqlite: real middleware, real
// services, no Redis. Presence degrades to the authoritative store, which is
// exactly what production does when Redis is down.
type httpEnv struct {
	router *gin.Engine
	db     *gorm.DB
	svc    *rooms.Service
	cat    *catalog.Service
}

func newHTTPEnv(t *testing.T, imageCount int) *httpEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "smrutimap_http.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "opening sqlite test database")
	require.NoError(t, config.MigrateDatabase(db))

	for i := 0; i < imageCount; i++ {
		img := postgres.HistoricalImage{
			ID:   fmt.Sprintf("img-%02d", i),
			URL:  fmt.Sprintf("https://photos.example/%02d.jpg", i),
			Year: 1900 + i,
			Lat:  40.0 + float64(i)*0.1,
			Lng:  -74.0 - float64(i)*0.1,
		}
		require.NoError(t, db.Create(&img).Error)
	}

	repo := storage.NewRepository(db)
	cat := catalog.New(repo)
	require.NoError(t, cat.Refresh(context.Background()))
	store := imagepool.NewPostgresStore(repo)
	pool := imagepool.New(store, store, cat)
	svc := rooms.New(repo, cat, pool, nil)
	hub := sync.NewHub(repo, nil, nil, svc)

	router := gin.New()
	middleware.SetUpMiddleware(router)
	routes.SetupRoutes(router, db, nil, svc, pool, hub, cat)

	return &httpEnv{router: router, db: db, svc: svc, cat: cat}
}

// perfectGuess answers the room's current image exactly.
func (e *httpEnv) perfectGuess(t *testing.T, code string) scoring.Guess {
	t.Helper()
	room, err := e.svc.Room(context.Background(), code)
	require.NoError(t, err)
	img, ok := e.cat.Get(room.CurrentImageID)
	require.True(t, ok, "room %s has no current image in the catalog", code)
	return scoring.Guess{Year: img.Year, Lat: img.Lat, Lng: img.Lng}
}

func (e *httpEnv) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// do fires a request with an optional JSON body, bearer token and session
// cookies, and returns the recorder.
func (e *httpEnv) do(t *testing.T, method, path, token string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signUp registers a user over the API and returns their bearer token.
func (e *httpEnv) signUp(t *testing.T, username string) string {
	t.Helper()
	w := e.postForm(t, "/auth/signup", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"testpass123"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// startGuest opens a guest session and returns the minted id plus the
// session cookies to replay on game requests.
func (e *httpEnv) startGuest(t *testing.T) (string, []*http.Cookie) {
	t.Helper()
	w := e.do(t, http.MethodGet, "/auth/guest", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		GuestID string `json:"guest_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.GuestID)
	return resp.GuestID, w.Result().Cookies()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestPing(t *testing.T) {
	env := newHTTPEnv(t, 0)

	w := env.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w)["message"])
}

func TestHealthWithoutRedis(t *testing.T) {
	env := newHTTPEnv(t, 3)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "up", body["postgres"])
	assert.Equal(t, "disabled", body["redis"])
	assert.Equal(t, float64(3), body["catalog_images"])
	assert.NotEmpty(t, body["catalog_loaded_at"])
}

func TestGameEndpointsRejectAnonymous(t *testing.T) {
	env := newHTTPEnv(t, 3)

	for _, path := range []string{"/images/next", "/rooms/ABCDEF", "/daily/leaderboard"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := env.do(t, http.MethodPost, "/rooms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
