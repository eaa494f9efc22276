package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ourphotos/auth"
	"ourphotos/cleanup"
	"ourphotos/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	media  *fakeMediaStore
	api    *API
}

var testSetupOnce sync.Once

// fakeMediaStore keeps uploaded objects in memory so tests can assert on the
// media side effects of each handler.
type fakeMediaStore struct {
	mu          sync.Mutex
	objects     map[string][]byte
	failUploads bool
	failDeletes bool
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: map[string][]byte{}}
}

func (s *fakeMediaStore) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUploads {
		return "", fmt.Errorf("upload refused")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.objects[objectName] = data
	return "http://media.test/" + objectName, nil
}

func (s *fakeMediaStore) Delete(_ context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDeletes {
		return fmt.Errorf("delete refused")
	}
	delete(s.objects, objectName)
	return nil
}

func (s *fakeMediaStore) has(objectName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectName]
	return ok
}

func (s *fakeMediaStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		auth.Configure("test-secret")
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	// A single connection keeps the PRAGMA below in effect for every query.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed enabling foreign keys: %v", err)
	}
	if err := models.Init(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	store := newFakeMediaStore()
	reconciler := cleanup.NewReconciler(store, time.Hour)
	api := NewAPI(db, store, reconciler)

	router := gin.New()
	MountRoutes(router, api)

	return &testEnv{router: router, db: db, media: store, api: api}
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string) (models.User, string) {
	t.Helper()

	user, err := models.UserCreate(db, email, password)
	if err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}
	token, err := auth.GenerateToken(&user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}
	return user, token
}

func createTestAlbum(t *testing.T, db *gorm.DB, userID uint64, title string) models.Album {
	t.Helper()

	album := models.Album{UserID: userID, Title: title}
	if err := db.Create(&album).Error; err != nil {
		t.Fatalf("failed creating test album: %v", err)
	}
	return album
}

func createTestPhoto(t *testing.T, db *gorm.DB, store *fakeMediaStore, userID, albumID uint64) models.Photo {
	t.Helper()

	publicID := fmt.Sprintf("u%d/a%d/test-%d.jpg", userID, albumID, time.Now().UnixNano())
	if store != nil {
		store.mu.Lock()
		store.objects[publicID] = []byte("jpeg bytes")
		store.mu.Unlock()
	}
	photo := models.Photo{
		AlbumID:  albumID,
		UserID:   userID,
		URL:      "http://media.test/" + publicID,
		PublicID: publicID,
	}
	if err := db.Create(&photo).Error; err != nil {
		t.Fatalf("failed creating test photo: %v", err)
	}
	return photo
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body io.Reader, token, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func performJSONRequest(t *testing.T, router *gin.Engine, method, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return performRequest(t, router, method, path, body, token, contentType)
}

func performUpload(t *testing.T, router *gin.Engine, path, fieldName, fileName string, content []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("failed creating form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed writing form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}
	return performRequest(t, router, http.MethodPost, path, &body, token, writer.FormDataContentType())
}

func decodeJSONMap(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, recorder.Body.String())
	}
	return payload
}

func decodeJSONList(t *testing.T, recorder *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var payload []map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, recorder.Body.String())
	}
	return payload
}

func assertStatus(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Fatalf("expected status %d, got %d (body %s)", expected, recorder.Code, recorder.Body.String())
	}
}

func assertMessage(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if got, _ := body["message"].(string); got != expected {
		t.Fatalf("expected message %q, got %q", expected, got)
	}
}
