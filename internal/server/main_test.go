package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

func newTestApp(t *testing.T) (*Server, *fiber.App) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		Port:          "5000",
		SessionSecret: "test-secret",
		Env:           "test",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: srv.errorHandler})
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	srv.app = app

	return srv, app
}

// testClient carries session cookies between requests, like a browser.
type testClient struct {
	t       *testing.T
	app     *fiber.App
	cookies []*http.Cookie
}

func newClient(t *testing.T, app *fiber.App) *testClient {
	return &testClient{t: t, app: app}
}

func (c *testClient) do(method, target string, form url.Values) *http.Response {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	for _, cookie := range resp.Cookies() {
		c.setCookie(cookie)
	}
	return resp
}

func (c *testClient) setCookie(cookie *http.Cookie) {
	for i, existing := range c.cookies {
		if existing.Name == cookie.Name {
			c.cookies[i] = cookie
			return
		}
	}
	c.cookies = append(c.cookies, cookie)
}

func (c *testClient) get(target string) *http.Response {
	return c.do(fiber.MethodGet, target, nil)
}

func (c *testClient) postForm(target string, form url.Values) *http.Response {
	return c.do(fiber.MethodPost, target, form)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return string(b)
}

// signup registers a user through the HTTP surface and leaves the client
// logged in.
func (c *testClient) signup(username, password string) {
	resp := c.postForm("/signup", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {password},
	})
	require.Equal(c.t, fiber.StatusFound, resp.StatusCode)
}

// login signs the client in with the given credentials.
func (c *testClient) login(username, password string) {
	resp := c.postForm("/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(c.t, fiber.StatusFound, resp.StatusCode)
}

// seedUser writes a user straight to the database, bypassing HTTP.
func seedUser(t *testing.T, srv *Server, username, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		Password:       string(hash),
		ImageURL:       models.DefaultImageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	require.NoError(t, srv.db.Create(user).Error)
	return user
}

// seedMessage writes a warble straight to the database.
func seedMessage(t *testing.T, srv *Server, userID uint, text string) *models.Message {
	message := &models.Message{Text: text, UserID: userID}
	require.NoError(t, srv.db.Create(message).Error)
	return message
}
