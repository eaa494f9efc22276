package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

type Album struct {
	ID            uint64 `json:"id"`
	UserID        uint64 `json:"user_id"`
	CreatedAt     int64  `json:"created_at"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	CoverPhotoURL string `json:"cover_photo_url"`
}

type Photo struct {
	ID         uint64 `json:"id"`
	AlbumID    uint64 `json:"album_id"`
	UserID     uint64 `json:"user_id"`
	UploadedAt int64  `json:"uploaded_at"`
	URL        string `json:"url"`
	ThumbURL   string `json:"thumb_url"`
	PublicID   string `json:"public_id"`
}

// APIError is the decoded {message} body of a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Client talks to the album service. The token store is injected so callers
// decide whether logins are durable.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenStore
}

func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
		Tokens:     tokens,
	}
}

func (c *Client) LoggedIn() bool {
	return c.Tokens.Token() != ""
}

func (c *Client) Logout() error {
	return c.Tokens.Clear()
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(encoded), "application/json", out)
}

type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	var resp authResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/register", payload, &resp); err != nil {
		return err
	}
	return c.Tokens.SetToken(resp.Token)
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp authResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/login", payload, &resp); err != nil {
		return err
	}
	return c.Tokens.SetToken(resp.Token)
}

func (c *Client) ListAlbums(ctx context.Context) ([]Album, error) {
	albums := []Album{}
	err := c.do(ctx, http.MethodGet, "/albums", nil, "", &albums)
	return albums, err
}

func (c *Client) CreateAlbum(ctx context.Context, title, description string) (Album, error) {
	var album Album
	payload := map[string]string{"title": title, "description": description}
	err := c.doJSON(ctx, http.MethodPost, "/albums", payload, &album)
	return album, err
}

func (c *Client) UpdateAlbum(ctx context.Context, id uint64, title, description string) error {
	payload := map[string]string{"title": title, "description": description}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/albums/%d", id), payload, nil)
}

func (c *Client) DeleteAlbum(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/albums/%d", id), nil, "", nil)
}

func (c *Client) SetAlbumCover(ctx context.Context, id uint64, photoURL string) error {
	payload := map[string]string{"photoUrl": photoURL}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/albums/%d/cover", id), payload, nil)
}

func (c *Client) ListPhotos(ctx context.Context, albumID uint64) ([]Photo, error) {
	photos := []Photo{}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/albums/%d/photos", albumID), nil, "", &photos)
	return photos, err
}

func (c *Client) UploadPhoto(ctx context.Context, albumID uint64, fileName string, content io.Reader) (Photo, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photoFile", fileName)
	if err != nil {
		return Photo{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return Photo{}, err
	}
	if err := writer.Close(); err != nil {
		return Photo{}, err
	}
	var photo Photo
	err = c.do(ctx, http.MethodPost, fmt.Sprintf("/albums/%d/photos", albumID), &body, writer.FormDataContentType(), &photo)
	return photo, err
}

func (c *Client) DeletePhoto(ctx context.Context, albumID, photoID uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/albums/%d/photos/%d", albumID, photoID), nil, "", nil)
}
