package client

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"
)

// ViewMode is the top-level view.
type ViewMode int

const (
	ModeAlbums ViewMode = iota
	ModePhotos
)

// PhotoMode is the sub-state while an album is open. Exactly one applies at a
// time; there are no ad hoc mode strings.
type PhotoMode int

const (
	PhotoNormal PhotoMode = iota
	PhotoCoverPick
	PhotoDeleteSelect
	PhotoDeleteConfirm
	PhotoView
	AlbumEdit
	AlbumSettings
)

const authErrorTTL = 3 * time.Second

// Gallery is the album/photo view-state machine. All mutation goes through
// its methods; reads return copies so callers never observe partial state.
type Gallery struct {
	api *Client

	mu            sync.Mutex
	mode          ViewMode
	photoMode     PhotoMode
	albums        []Album
	current       *Album
	photos        []Photo
	selected      map[uint64]struct{}
	viewedPhoto   *Photo
	loadingPhotos bool
	pending       int

	authError      string
	authErrorTimer *time.Timer
}

func NewGallery(api *Client) *Gallery {
	return &Gallery{
		api:      api,
		mode:     ModeAlbums,
		selected: map[uint64]struct{}{},
	}
}

func (g *Gallery) LoggedIn() bool {
	return g.api.LoggedIn()
}

func (g *Gallery) Mode() ViewMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

func (g *Gallery) PhotoMode() PhotoMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.photoMode
}

func (g *Gallery) Albums() []Album {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Album{}, g.albums...)
}

func (g *Gallery) Photos() []Photo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Photo{}, g.photos...)
}

func (g *Gallery) CurrentAlbum() (Album, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Album{}, false
	}
	return *g.current, true
}

func (g *Gallery) ViewedPhoto() (Photo, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.viewedPhoto == nil {
		return Photo{}, false
	}
	return *g.viewedPhoto, true
}

func (g *Gallery) LoadingPhotos() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loadingPhotos
}

// PendingUploads reports in-flight uploads. Upload-sensitive UI actions stay
// disabled while this is non-zero.
func (g *Gallery) PendingUploads() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

func (g *Gallery) IsSelected(photoID uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.selected[photoID]
	return ok
}

func (g *Gallery) SelectedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.selected)
}

func (g *Gallery) AuthError() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authError
}

// setAuthError shows a transient message that clears itself. A newer error
// restarts the clock.
func (g *Gallery) setAuthError(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.authError = message
	if g.authErrorTimer != nil {
		g.authErrorTimer.Stop()
	}
	g.authErrorTimer = time.AfterFunc(authErrorTTL, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.authError = ""
	})
}

func (g *Gallery) Login(ctx context.Context, email, password string) error {
	if err := g.api.Login(ctx, email, password); err != nil {
		g.setAuthError(err.Error())
		return err
	}
	return nil
}

func (g *Gallery) Register(ctx context.Context, email, password string) error {
	if err := g.api.Register(ctx, email, password); err != nil {
		g.setAuthError(err.Error())
		return err
	}
	return nil
}

func (g *Gallery) Logout() error {
	g.mu.Lock()
	g.mode = ModeAlbums
	g.photoMode = PhotoNormal
	g.albums = nil
	g.current = nil
	g.photos = nil
	g.selected = map[uint64]struct{}{}
	g.mu.Unlock()
	return g.api.Logout()
}

func (g *Gallery) LoadAlbums(ctx context.Context) error {
	albums, err := g.api.ListAlbums(ctx)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.albums = albums
	g.mu.Unlock()
	return nil
}

func (g *Gallery) CreateAlbum(ctx context.Context, title, description string) error {
	album, err := g.api.CreateAlbum(ctx, title, description)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.albums = append([]Album{album}, g.albums...)
	g.mu.Unlock()
	return nil
}

// OpenAlbum switches to the photo view. The switch only happens once the
// fetch settles, so a stale photo list is never shown; a failed fetch opens
// the album empty.
func (g *Gallery) OpenAlbum(ctx context.Context, albumID uint64) error {
	g.mu.Lock()
	var album *Album
	for i := range g.albums {
		if g.albums[i].ID == albumID {
			album = &g.albums[i]
			break
		}
	}
	if album == nil {
		g.mu.Unlock()
		return &APIError{StatusCode: 404, Message: "album not found"}
	}
	g.loadingPhotos = true
	g.mu.Unlock()

	photos, err := g.api.ListPhotos(ctx, albumID)
	if err != nil {
		photos = []Photo{}
	}

	g.mu.Lock()
	g.loadingPhotos = false
	g.current = album
	g.photos = photos
	g.mode = ModePhotos
	g.photoMode = PhotoNormal
	g.selected = map[uint64]struct{}{}
	g.mu.Unlock()
	return err
}

// ShowAlbums returns to the album grid.
func (g *Gallery) ShowAlbums() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = ModeAlbums
	g.photoMode = PhotoNormal
	g.current = nil
	g.photos = nil
	g.viewedPhoto = nil
	g.selected = map[uint64]struct{}{}
}

func (g *Gallery) setPhotoMode(from, to PhotoMode) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode != ModePhotos || g.photoMode != from {
		return false
	}
	g.photoMode = to
	if to == PhotoDeleteSelect {
		g.selected = map[uint64]struct{}{}
	}
	return true
}

func (g *Gallery) EnterEdit() bool       { return g.setPhotoMode(PhotoNormal, AlbumEdit) }
func (g *Gallery) ExitEdit() bool        { return g.setPhotoMode(AlbumEdit, PhotoNormal) }
func (g *Gallery) OpenSettings() bool    { return g.setPhotoMode(PhotoNormal, AlbumSettings) }
func (g *Gallery) CloseSettings() bool   { return g.setPhotoMode(AlbumSettings, PhotoNormal) }
func (g *Gallery) StartCoverPick() bool  { return g.setPhotoMode(AlbumSettings, PhotoCoverPick) }
func (g *Gallery) CancelCoverPick() bool { return g.setPhotoMode(PhotoCoverPick, PhotoNormal) }
func (g *Gallery) StartDeleteSelect() bool {
	return g.setPhotoMode(AlbumEdit, PhotoDeleteSelect)
}
func (g *Gallery) CancelDeleteSelect() bool {
	return g.setPhotoMode(PhotoDeleteSelect, PhotoNormal)
}
func (g *Gallery) RequestDeleteConfirm() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.photoMode != PhotoDeleteSelect || len(g.selected) == 0 {
		return false
	}
	g.photoMode = PhotoDeleteConfirm
	return true
}
func (g *Gallery) CancelDeleteConfirm() bool {
	return g.setPhotoMode(PhotoDeleteConfirm, PhotoDeleteSelect)
}
func (g *Gallery) ClosePhotoView() bool { return g.setPhotoMode(PhotoView, PhotoNormal) }

// ClickPhoto dispatches on the current sub-mode: pick a cover, toggle a
// delete selection, or open the photo.
func (g *Gallery) ClickPhoto(ctx context.Context, photoID uint64) error {
	g.mu.Lock()
	mode := g.photoMode
	var photo *Photo
	for i := range g.photos {
		if g.photos[i].ID == photoID {
			photo = &g.photos[i]
			break
		}
	}
	if photo == nil {
		g.mu.Unlock()
		return &APIError{StatusCode: 404, Message: "photo not found"}
	}

	switch mode {
	case PhotoDeleteSelect:
		if _, ok := g.selected[photoID]; ok {
			delete(g.selected, photoID)
		} else {
			g.selected[photoID] = struct{}{}
		}
		g.mu.Unlock()
		return nil
	case PhotoCoverPick:
		album := g.current
		url := photo.URL
		g.mu.Unlock()
		if err := g.api.SetAlbumCover(ctx, album.ID, url); err != nil {
			return err
		}
		// Cover and mode change land together; no state where one is
		// visible without the other.
		g.mu.Lock()
		if g.current != nil && g.current.ID == album.ID {
			g.current.CoverPhotoURL = url
		}
		for i := range g.albums {
			if g.albums[i].ID == album.ID {
				g.albums[i].CoverPhotoURL = url
			}
		}
		g.photoMode = PhotoNormal
		g.mu.Unlock()
		return nil
	default:
		g.viewedPhoto = photo
		g.photoMode = PhotoView
		g.mu.Unlock()
		return nil
	}
}

func (g *Gallery) UpdateAlbum(ctx context.Context, title, description string) error {
	g.mu.Lock()
	if g.current == nil {
		g.mu.Unlock()
		return &APIError{StatusCode: 404, Message: "album not found"}
	}
	albumID := g.current.ID
	g.mu.Unlock()

	if err := g.api.UpdateAlbum(ctx, albumID, title, description); err != nil {
		return err
	}
	g.mu.Lock()
	if g.current != nil && g.current.ID == albumID {
		g.current.Title = title
		g.current.Description = description
	}
	for i := range g.albums {
		if g.albums[i].ID == albumID {
			g.albums[i].Title = title
			g.albums[i].Description = description
		}
	}
	g.mu.Unlock()
	return nil
}

func (g *Gallery) DeleteCurrentAlbum(ctx context.Context) error {
	g.mu.Lock()
	if g.current == nil {
		g.mu.Unlock()
		return &APIError{StatusCode: 404, Message: "album not found"}
	}
	albumID := g.current.ID
	g.mu.Unlock()

	if err := g.api.DeleteAlbum(ctx, albumID); err != nil {
		return err
	}
	g.mu.Lock()
	kept := g.albums[:0]
	for _, album := range g.albums {
		if album.ID != albumID {
			kept = append(kept, album)
		}
	}
	g.albums = kept
	g.mode = ModeAlbums
	g.photoMode = PhotoNormal
	g.current = nil
	g.photos = nil
	g.mu.Unlock()
	return nil
}

// DeleteSelected issues one delete per selected photo, all in parallel, and
// drops only the ones that succeeded from the local list. The survivors are
// the user's signal that something failed. Returns the ids that failed.
func (g *Gallery) DeleteSelected(ctx context.Context) []uint64 {
	g.mu.Lock()
	if g.photoMode != PhotoDeleteConfirm || g.current == nil {
		g.mu.Unlock()
		return nil
	}
	albumID := g.current.ID
	ids := make([]uint64, 0, len(g.selected))
	for id := range g.selected {
		ids = append(ids, id)
	}
	g.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var wg sync.WaitGroup
	var resultMu sync.Mutex
	deleted := map[uint64]struct{}{}
	failed := []uint64{}
	for _, id := range ids {
		wg.Add(1)
		go func(photoID uint64) {
			defer wg.Done()
			err := g.api.DeletePhoto(ctx, albumID, photoID)
			resultMu.Lock()
			if err != nil {
				failed = append(failed, photoID)
			} else {
				deleted[photoID] = struct{}{}
			}
			resultMu.Unlock()
		}(id)
	}
	wg.Wait()

	g.mu.Lock()
	kept := g.photos[:0]
	for _, photo := range g.photos {
		if _, ok := deleted[photo.ID]; !ok {
			kept = append(kept, photo)
		}
	}
	g.photos = kept
	g.selected = map[uint64]struct{}{}
	g.photoMode = PhotoNormal
	g.mu.Unlock()

	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
	return failed
}

// UploadFile is one pending upload.
type UploadFile struct {
	Name    string
	Content []byte
}

// UploadFiles bumps the pending counter by the batch size up front, uploads
// every file in parallel and decrements as each one settles. Completion
// order, and therefore the order of the new photos, is not defined.
func (g *Gallery) UploadFiles(ctx context.Context, files []UploadFile) []error {
	g.mu.Lock()
	if g.current == nil {
		g.mu.Unlock()
		return []error{&APIError{StatusCode: 404, Message: "album not found"}}
	}
	albumID := g.current.ID
	g.pending += len(files)
	g.mu.Unlock()

	var wg sync.WaitGroup
	var resultMu sync.Mutex
	errs := []error{}
	for _, file := range files {
		wg.Add(1)
		go func(f UploadFile) {
			defer wg.Done()
			defer g.settleUpload()
			photo, err := g.api.UploadPhoto(ctx, albumID, f.Name, bytes.NewReader(f.Content))
			if err != nil {
				resultMu.Lock()
				errs = append(errs, err)
				resultMu.Unlock()
				return
			}
			g.mu.Lock()
			if g.current != nil && g.current.ID == albumID {
				g.photos = append([]Photo{photo}, g.photos...)
			}
			g.mu.Unlock()
		}(file)
	}
	wg.Wait()
	return errs
}

func (g *Gallery) settleUpload() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending--
	if g.pending < 0 {
		g.pending = 0
	}
}
