package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tiepbuoc/internal/captcha"
	"tiepbuoc/internal/config"
	"tiepbuoc/internal/database"
	"tiepbuoc/internal/models"
	"tiepbuoc/internal/notifications"
	"tiepbuoc/internal/repository"
	"tiepbuoc/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

// newTestServer builds a Server over in-memory sqlite without Redis and
// without the prometheus middleware (whose collectors register globally).
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret-key-for-handler-tests",
		Env:              "test",
		UploadDir:        t.TempDir(),
		UploadPublicPath: "/uploads",
		UploadMaxSizeMB:  5,
	}

	notifier := notifications.NewNotifier(nil)
	s := &Server{
		config:           cfg,
		db:               db,
		applicationRepo:  repository.NewApplicationRepository(db),
		donorRepo:        repository.NewDonorRepository(db),
		studentRepo:      repository.NewStudentRepository(db),
		inventoryRepo:    repository.NewInventoryRepository(db),
		areaRepo:         repository.NewAreaRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		settingRepo:      repository.NewSettingRepository(db),
		adminUserRepo:    repository.NewAdminUserRepository(db),
		captcha:          captcha.NewVerifier(""),
		notifier:         notifier,
		adminHub:         notifications.NewAdminHub(),
		reviewService:    service.NewReviewService(db, notifier),
		reportService:    service.NewReportService(db),
		photoService:     service.NewPhotoService(cfg),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// createAdmin inserts a console operator and returns a valid token for them.
func createAdmin(t *testing.T, s *Server, username string, isAdmin bool) (*models.AdminUser, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.AdminUser{
		Username: username,
		Password: string(hash),
		IsAdmin:  isAdmin,
	}
	require.NoError(t, s.db.Create(user).Error)

	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

// doJSON performs a request against the app and decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "response body: %s", raw)
	}
	return resp, decoded
}

func intPtr(v int) *int { return &v }
