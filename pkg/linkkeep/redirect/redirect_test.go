package redirect

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	// A single connection so every goroutine sees the same in-memory
	// database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	models.AutoMigrate(db)
	return db
}

func createTestLink(t *testing.T, db *gorm.DB, code, url string) models.Link {
	link := models.Link{
		UserID:      1,
		Name:        "Test Link",
		OriginalURL: url,
		ShortCode:   code,
	}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("Failed to create test link: %v", err)
	}
	return link
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db, 5*time.Second)
	handler.RegisterRoutes(r)
	return r
}

func TestRedirect(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	createTestLink(t, db, "abc123", "https://example.com/page")

	req, _ := http.NewRequest("GET", "/s/abc123", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", resp.Code)
	}

	location := resp.Header().Get("Location")
	if location != "https://example.com/page" {
		t.Errorf("Expected Location 'https://example.com/page', got %s", location)
	}
}

func TestRedirectNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/s/ZZZZZZ", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}

	// A miss must not leave any record behind.
	var count int64
	db.Model(&models.Link{}).Where("short_code = ?", "ZZZZZZ").Count(&count)
	if count != 0 {
		t.Errorf("Expected no link rows for a missed code, found %d", count)
	}
}

func TestRedirectIncrementsClicks(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	link := createTestLink(t, db, "click1", "https://example.com")

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("GET", "/s/click1", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusFound {
			t.Fatalf("Expected status 302, got %d", resp.Code)
		}
	}

	var updated models.Link
	db.First(&updated, link.ID)
	if updated.Clicks != 3 {
		t.Errorf("Expected 3 clicks, got %d", updated.Clicks)
	}
}

func TestConcurrentRedirectsLoseNoClicks(t *testing.T) {
	const k = 20

	db := setupTestDB(t)
	router := setupTestRouter(db)
	link := createTestLink(t, db, "busy01", "https://example.com")

	var wg sync.WaitGroup
	codes := make([]int, k)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, _ := http.NewRequest("GET", "/s/busy01", nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			codes[i] = resp.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusFound {
			t.Errorf("Request %d: expected status 302, got %d", i, code)
		}
	}

	var updated models.Link
	db.First(&updated, link.ID)
	if updated.Clicks != k {
		t.Errorf("Expected %d clicks, got %d (lost updates)", k, updated.Clicks)
	}
}

// brokenAccountingStore resolves lookups but fails every click increment.
type brokenAccountingStore struct {
	inner Store
}

func (s *brokenAccountingStore) FindByCode(ctx context.Context, code string) (*models.Link, error) {
	return s.inner.FindByCode(ctx, code)
}

func (s *brokenAccountingStore) CountClick(ctx context.Context, id uint) error {
	return errors.New("clicks table unavailable")
}

func TestRedirectSurvivesIncrementFailure(t *testing.T) {
	db := setupTestDB(t)
	createTestLink(t, db, "abc123", "https://example.com")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &Handler{
		store:        &brokenAccountingStore{inner: NewStore(db)},
		storeTimeout: 5 * time.Second,
	}
	handler.RegisterRoutes(r)

	req, _ := http.NewRequest("GET", "/s/abc123", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	// Click accounting is telemetry; its failure must never block the
	// redirect.
	if resp.Code != http.StatusFound {
		t.Errorf("Expected status 302 despite increment failure, got %d", resp.Code)
	}
	if location := resp.Header().Get("Location"); location != "https://example.com" {
		t.Errorf("Expected Location 'https://example.com', got %s", location)
	}
}
