package services

import (
	"testing"

	"github.com/mbgestor/anamnese-api/internal/access"
	"github.com/mbgestor/anamnese-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testRoutes() []access.Route {
	return []access.Route{
		{Method: "GET", Path: "/api/healthz", Name: "Health"},
		{Method: "POST", Path: "/api/intakes", Name: "Create intake"},
		{Method: "GET", Path: "/api/anamneses", Name: "List anamneses"},
	}
}

func activeAccessSet(t *testing.T, db *gorm.DB) map[string]bool {
	t.Helper()
	var rows []models.Access
	require.NoError(t, db.Where("is_active = ?", true).Find(&rows).Error)
	set := make(map[string]bool, len(rows))
	for _, a := range rows {
		set[a.HttpMethod+" "+a.RoutePattern] = true
	}
	return set
}

func adminGrantCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var role models.Role
	require.NoError(t, db.Where("name = ?", "Admin").First(&role).Error)
	var count int64
	require.NoError(t, db.Model(&models.RoleAccess{}).Where("role_id = ?", role.ID).Count(&count).Error)
	return count
}

func TestSyncSeedsRegistryAndAdmin(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "")

	require.NoError(t, svc.Sync(testRoutes()))

	var accesses []models.Access
	require.NoError(t, db.Find(&accesses).Error)
	assert.Len(t, accesses, 3)
	for _, a := range accesses {
		assert.True(t, a.IsActive)
		require.NotNil(t, a.DisplayName)
	}

	var role models.Role
	require.NoError(t, db.Where("name = ?", "Admin").First(&role).Error)
	assert.True(t, role.IsSystem)

	var admin models.User
	require.NoError(t, db.Preload("Profile").Where("user_name = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, HashPassword("admin"), admin.PasswordHash)
	require.NotNil(t, admin.Profile)

	var julia models.User
	require.NoError(t, db.Where("user_name = ?", "julia").First(&julia).Error)
	assert.False(t, julia.IsAdmin)

	var membership int64
	require.NoError(t, db.Model(&models.UserRole{}).
		Where("user_id = ? AND role_id = ?", admin.ID, role.ID).
		Count(&membership).Error)
	assert.EqualValues(t, 1, membership)

	// Admin holds every active access.
	assert.EqualValues(t, 3, adminGrantCount(t, db))
}

func TestSyncIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "")

	require.NoError(t, svc.Sync(testRoutes()))
	firstActive := activeAccessSet(t, db)
	firstGrants := adminGrantCount(t, db)

	require.NoError(t, svc.Sync(testRoutes()))

	assert.Equal(t, firstActive, activeAccessSet(t, db))
	assert.Equal(t, firstGrants, adminGrantCount(t, db))

	var total int64
	require.NoError(t, db.Model(&models.Access{}).Count(&total).Error)
	assert.EqualValues(t, 3, total)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 2, users)
}

func TestSyncDeactivatesAndReactivates(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "")

	require.NoError(t, svc.Sync(testRoutes()))

	// Route table shrinks: the intake endpoint disappears.
	shrunk := []access.Route{
		{Method: "GET", Path: "/api/healthz", Name: "Health"},
		{Method: "GET", Path: "/api/anamneses", Name: "List anamneses"},
	}
	require.NoError(t, svc.Sync(shrunk))

	var gone models.Access
	require.NoError(t, db.Where("http_method = ? AND route_pattern = ?", "POST", "/api/intakes").First(&gone).Error,
		"vanished routes are deactivated, never deleted")
	assert.False(t, gone.IsActive)

	// The endpoint reappears with a new display name.
	renamed := append(shrunk, access.Route{Method: "POST", Path: "/api/intakes", Name: "Submit intake"})
	require.NoError(t, svc.Sync(renamed))

	require.NoError(t, db.Where("http_method = ? AND route_pattern = ?", "POST", "/api/intakes").First(&gone).Error)
	assert.True(t, gone.IsActive)
	require.NotNil(t, gone.DisplayName)
	assert.Equal(t, "Submit intake", *gone.DisplayName)

	var total int64
	require.NoError(t, db.Model(&models.Access{}).Count(&total).Error)
	assert.EqualValues(t, 3, total, "reappearing routes reuse their row")
}

func TestSyncMethodCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "")

	require.NoError(t, svc.Sync([]access.Route{{Method: "get", Path: "/api/healthz", Name: "Health"}}))
	require.NoError(t, svc.Sync([]access.Route{{Method: "GET", Path: "/api/healthz", Name: "Health"}}))

	var total int64
	require.NoError(t, db.Model(&models.Access{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)

	var row models.Access
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "GET", row.HttpMethod)
}

func TestSyncSkipsEmptyPatterns(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "")

	require.NoError(t, svc.Sync([]access.Route{
		{Method: "GET", Path: "", Name: "Bogus"},
		{Method: "GET", Path: "/api/healthz", Name: "Health"},
	}))

	var total int64
	require.NoError(t, db.Model(&models.Access{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestSyncNeverOverwritesPasswordHash(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "")

	require.NoError(t, svc.Sync(testRoutes()))

	require.NoError(t, db.Model(&models.User{}).
		Where("user_name = ?", "admin").
		Update("password_hash", "operator-set-hash").Error)

	require.NoError(t, svc.Sync(testRoutes()))

	var admin models.User
	require.NoError(t, db.Where("user_name = ?", "admin").First(&admin).Error)
	assert.Equal(t, "operator-set-hash", admin.PasswordHash)
}

func TestSyncAdminPasswordOverride(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "s3cret")

	require.NoError(t, svc.Sync(testRoutes()))

	var admin models.User
	require.NoError(t, db.Where("user_name = ?", "admin").First(&admin).Error)
	assert.Equal(t, HashPassword("s3cret"), admin.PasswordHash)
}

func TestSyncForcesAdminFlag(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "")

	require.NoError(t, svc.Sync(testRoutes()))
	require.NoError(t, db.Model(&models.User{}).
		Where("user_name = ?", "admin").
		Update("is_admin", false).Error)

	require.NoError(t, svc.Sync(testRoutes()))

	var admin models.User
	require.NoError(t, db.Where("user_name = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsAdmin)
}

func TestSyncGrantsNewAccessesToAdmin(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "")

	require.NoError(t, svc.Sync(testRoutes()))
	before := adminGrantCount(t, db)

	grown := append(testRoutes(), access.Route{Method: "GET", Path: "/api/clients", Name: "Search clients"})
	require.NoError(t, svc.Sync(grown))

	assert.Equal(t, before+1, adminGrantCount(t, db))
}

func TestSyncKeepsGrantsOnDeactivatedAccesses(t *testing.T) {
	db := openTestDB(t)
	svc := NewAccessSyncService(db, "")

	require.NoError(t, svc.Sync(testRoutes()))

	var role models.Role
	require.NoError(t, db.Where("name = ?", "Admin").First(&role).Error)

	require.NoError(t, svc.Sync(testRoutes()[:1]))

	// Historical grants survive deactivation.
	var grants int64
	require.NoError(t, db.Model(&models.RoleAccess{}).Where("role_id = ?", role.ID).Count(&grants).Error)
	assert.EqualValues(t, 3, grants)
}
