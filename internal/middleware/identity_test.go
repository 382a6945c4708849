package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/mbgestor/anamnese-api/internal/database"
	"github.com/mbgestor/anamnese-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, admin bool) models.User {
	t.Helper()
	u := models.User{UserName: name, IsAdmin: admin, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// echoApp exposes the resolved identity so assertions can see it.
func echoApp(db *gorm.DB, fallback string) *fiber.App {
	app := fiber.New()
	app.Use(ResolveIdentity(db, fallback))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if u := CurrentUser(c); u != nil {
			return c.SendString(u.UserName)
		}
		return c.SendStatus(fiber.StatusUnauthorized)
	})
	app.Get("/admin-only", AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	return string(buf[:n])
}

func TestResolveIdentityFromHeader(t *testing.T) {
	db := openTestDB(t)
	admin := seedUser(t, db, "admin", true)
	julia := seedUser(t, db, "julia", false)
	app := echoApp(db, "admin")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-Id", julia.ID.String())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "julia", body(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-Id", admin.ID.String())
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "admin", body(t, resp))
}

func TestResolveIdentityFallback(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "admin", true)
	app := echoApp(db, "admin")

	// No header.
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "admin", body(t, resp))

	// Garbage header falls back too.
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-Id", "not-a-uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "admin", body(t, resp))
}

func TestResolveIdentityFallbackDisabled(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "admin", true)
	app := echoApp(db, "")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestResolveIdentitySkipsInactiveUsers(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "admin", true)
	disabled := seedUser(t, db, "carla", false)
	require.NoError(t, db.Model(&disabled).Update("is_active", false).Error)
	app := echoApp(db, "admin")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-Id", disabled.ID.String())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "admin", body(t, resp), "inactive users fall back to the configured identity")
}

func TestAdminRequired(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "admin", true)
	julia := seedUser(t, db, "julia", false)
	app := echoApp(db, "")

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("X-User-Id", julia.ID.String())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// No identity at all is rejected the same way.
	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
