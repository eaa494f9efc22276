package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

const testToken = "test-token"

// fakeServer is an in-memory stand-in for the album service, implementing
// just enough of its HTTP surface for client tests.
type fakeServer struct {
	mu          sync.Mutex
	albums      map[uint64]*Album
	photos      map[uint64]*Photo
	nextID      uint64
	failDeletes map[uint64]bool
	failUploads bool
	rejectLogin bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		albums:      map[uint64]*Album{},
		photos:      map[uint64]*Photo{},
		failDeletes: map[uint64]bool{},
	}
}

func (s *fakeServer) start(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", s.handleAuth)
	mux.HandleFunc("POST /login", s.handleAuth)
	mux.HandleFunc("GET /albums", s.authed(s.handleListAlbums))
	mux.HandleFunc("POST /albums", s.authed(s.handleCreateAlbum))
	mux.HandleFunc("PATCH /albums/{id}", s.authed(s.handleUpdateAlbum))
	mux.HandleFunc("DELETE /albums/{id}", s.authed(s.handleDeleteAlbum))
	mux.HandleFunc("PATCH /albums/{id}/cover", s.authed(s.handleSetCover))
	mux.HandleFunc("GET /albums/{id}/photos", s.authed(s.handleListPhotos))
	mux.HandleFunc("POST /albums/{id}/photos", s.authed(s.handleUpload))
	mux.HandleFunc("DELETE /albums/{id}/photos/{photoId}", s.authed(s.handleDeletePhoto))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func (s *fakeServer) addAlbum(title string) *Album {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	album := &Album{ID: s.nextID, UserID: 1, Title: title}
	s.albums[album.ID] = album
	return album
}

func (s *fakeServer) addPhoto(albumID uint64) *Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	photo := &Photo{
		ID:       s.nextID,
		AlbumID:  albumID,
		UserID:   1,
		URL:      fmt.Sprintf("http://media.test/u1/a%d/p%d.jpg", albumID, s.nextID),
		PublicID: fmt.Sprintf("u1/a%d/p%d.jpg", albumID, s.nextID),
	}
	s.photos[photo.ID] = photo
	return photo
}

func (s *fakeServer) photoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.photos)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *fakeServer) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid or expired token"})
			return
		}
		next(w, r)
	}
}

func (s *fakeServer) handleAuth(w http.ResponseWriter, r *http.Request) {
	if s.rejectLogin {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req["email"] == "" || req["password"] == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email and password are required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok", "token": testToken})
}

func pathID(r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	return id, err == nil
}

func (s *fakeServer) handleListAlbums(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	albums := []Album{}
	for _, album := range s.albums {
		albums = append(albums, *album)
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *fakeServer) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req["title"] == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "title is required"})
		return
	}
	s.mu.Lock()
	s.nextID++
	album := &Album{ID: s.nextID, UserID: 1, Title: req["title"], Description: req["description"]}
	s.albums[album.ID] = album
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, album)
}

func (s *fakeServer) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.mu.Lock()
	defer s.mu.Unlock()
	album, ok := s.albums[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "album not found"})
		return
	}
	album.Title = req["title"]
	album.Description = req["description"]
	writeJSON(w, http.StatusOK, map[string]any{"message": "album updated", "id": id})
}

func (s *fakeServer) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "album not found"})
		return
	}
	delete(s.albums, id)
	for photoID, photo := range s.photos {
		if photo.AlbumID == id {
			delete(s.photos, photoID)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "album deleted", "id": id})
}

func (s *fakeServer) handleSetCover(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req["photoUrl"] == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "photoUrl is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	album, ok := s.albums[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "album not found"})
		return
	}
	album.CoverPhotoURL = req["photoUrl"]
	writeJSON(w, http.StatusOK, map[string]string{"message": "cover updated", "coverUrl": req["photoUrl"]})
}

func (s *fakeServer) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.albums[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "album not found"})
		return
	}
	photos := []Photo{}
	for _, photo := range s.photos {
		if photo.AlbumID == id {
			photos = append(photos, *photo)
		}
	}
	writeJSON(w, http.StatusOK, photos)
}

func (s *fakeServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	failUploads := s.failUploads
	_, albumExists := s.albums[id]
	s.mu.Unlock()
	if !albumExists {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "album not found"})
		return
	}
	if failUploads {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "upload failed"})
		return
	}
	file, _, err := r.FormFile("photoFile")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "no file attached"})
		return
	}
	file.Close()
	photo := s.addPhoto(id)
	writeJSON(w, http.StatusCreated, photo)
}

func (s *fakeServer) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	albumID, _ := pathID(r, "id")
	photoID, _ := pathID(r, "photoId")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDeletes[photoID] {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}
	photo, ok := s.photos[photoID]
	if !ok || photo.AlbumID != albumID {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "photo not found"})
		return
	}
	delete(s.photos, photoID)
	writeJSON(w, http.StatusOK, map[string]any{"message": "photo deleted", "id": photoID})
}

func loggedInClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c := New(server.URL, &MemTokenStore{})
	if err := c.Tokens.SetToken(testToken); err != nil {
		t.Fatalf("failed seeding token: %v", err)
	}
	return c
}
