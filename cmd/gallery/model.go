package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"ourphotos/client"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the screen currently rendered. The album/photo sub-modes
// (cover pick, delete select, settings) live in [client.Gallery]; the model
// only mirrors them when rendering.
type ViewState int

const (
	LoginView ViewState = iota
	AlbumListView
	AlbumFormView
	PhotoListView
	UploadView
)

// Model is the terminal UI around a Gallery.
type Model struct {
	ctx     context.Context
	gallery *client.Gallery
	view    ViewState

	width  int
	height int

	emailInput    textinput.Model
	passwordInput textinput.Model
	registering   bool
	focusPassword bool

	titleInput textinput.Model
	descInput  textinput.Model
	focusDesc  bool
	editing    bool

	pathInput textinput.Model

	albumList list.Model
	photoList list.Model

	confirmAlbumDelete bool
	status             string
	err                error

	help help.Model
	keys keyMap
}

type keyMap struct {
	enter  key.Binding
	back   key.Binding
	toggle key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type albumItem struct {
	album client.Album
}

func (i albumItem) FilterValue() string { return i.album.Title }
func (i albumItem) Title() string       { return i.album.Title }
func (i albumItem) Description() string {
	if i.album.Description != "" {
		return i.album.Description
	}
	return "no description"
}

type photoItem struct {
	photo    client.Photo
	selected bool
}

func (i photoItem) FilterValue() string { return i.photo.URL }
func (i photoItem) Title() string {
	name := path.Base(i.photo.URL)
	if i.selected {
		return "[x] " + name
	}
	return name
}
func (i photoItem) Description() string {
	return time.Unix(i.photo.UploadedAt, 0).Format("2006-01-02 15:04")
}

type authDoneMsg struct{ err error }
type albumsLoadedMsg struct{ err error }
type albumOpenedMsg struct{ err error }
type albumSavedMsg struct{ err error }
type albumDeletedMsg struct{ err error }
type clickedMsg struct{ err error }
type photosDeletedMsg struct{ failed []uint64 }
type uploadedMsg struct{ errs []error }

func NewModel(ctx context.Context, gallery *client.Gallery) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	title := textinput.New()
	title.Placeholder = "title"
	desc := textinput.New()
	desc.Placeholder = "description"

	paths := textinput.New()
	paths.Placeholder = "/path/to/photo.jpg, /path/to/other.jpg"

	m := &Model{
		ctx:           ctx,
		gallery:       gallery,
		view:          LoginView,
		emailInput:    email,
		passwordInput: password,
		titleInput:    title,
		descInput:     desc,
		pathInput:     paths,
		albumList:     list.New(nil, list.NewDefaultDelegate(), 0, 0),
		photoList:     list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:          help.New(),
		keys:          newKeyMap(),
	}
	if gallery.LoggedIn() {
		m.view = AlbumListView
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.view == AlbumListView {
		return m.loadAlbums()
	}
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		width, height := m.listSize()
		m.albumList.SetSize(width, height)
		m.photoList.SetSize(width, height)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case AlbumListView:
			return m.handleAlbumListKeys(msg)
		case AlbumFormView:
			return m.handleAlbumFormKeys(msg)
		case PhotoListView:
			return m.handlePhotoListKeys(msg)
		case UploadView:
			return m.handleUploadKeys(msg)
		}

	case authDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.view = AlbumListView
		return m, m.loadAlbums()

	case albumsLoadedMsg:
		m.err = msg.err
		m.syncAlbumList()
		return m, nil

	case albumOpenedMsg:
		m.err = msg.err
		if m.gallery.Mode() == client.ModePhotos {
			m.view = PhotoListView
			m.syncPhotoList()
		}
		return m, nil

	case albumSavedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.view = m.afterFormView()
			m.syncAlbumList()
		}
		return m, nil

	case albumDeletedMsg:
		m.err = msg.err
		m.confirmAlbumDelete = false
		if msg.err == nil {
			m.view = AlbumListView
			m.syncAlbumList()
		}
		return m, nil

	case clickedMsg:
		m.err = msg.err
		m.syncPhotoList()
		m.syncAlbumList()
		return m, nil

	case photosDeletedMsg:
		if len(msg.failed) > 0 {
			m.status = fmt.Sprintf("%d photo(s) could not be deleted", len(msg.failed))
		} else {
			m.status = "photos deleted"
		}
		m.syncPhotoList()
		return m, nil

	case uploadedMsg:
		if len(msg.errs) > 0 {
			m.err = msg.errs[0]
			m.status = fmt.Sprintf("%d upload(s) failed", len(msg.errs))
		} else {
			m.err = nil
			m.status = "upload complete"
		}
		m.view = PhotoListView
		m.syncPhotoList()
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m *Model) afterFormView() ViewState {
	if m.editing {
		return PhotoListView
	}
	return AlbumListView
}

func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case AlbumListView:
		return m.renderAlbumList()
	case AlbumFormView:
		return m.renderAlbumForm()
	case PhotoListView:
		return m.renderPhotoList()
	case UploadView:
		return m.renderUpload()
	default:
		return ""
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.focusPassword = !m.focusPassword
		if m.focusPassword {
			m.emailInput.Blur()
			return m, m.passwordInput.Focus()
		}
		m.passwordInput.Blur()
		return m, m.emailInput.Focus()
	case "ctrl+r":
		m.registering = !m.registering
		return m, nil
	case "enter":
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		return m, m.authenticate(email, password)
	}
	return m.updateFocused(msg)
}

func (m *Model) handleAlbumListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n":
		m.editing = false
		m.titleInput.SetValue("")
		m.descInput.SetValue("")
		m.focusDesc = false
		m.descInput.Blur()
		m.view = AlbumFormView
		return m, m.titleInput.Focus()
	case "ctrl+l":
		_ = m.gallery.Logout()
		m.view = LoginView
		return m, m.emailInput.Focus()
	case "enter":
		if item, ok := m.albumList.SelectedItem().(albumItem); ok {
			return m, m.openAlbum(item.album.ID)
		}
	}
	var cmd tea.Cmd
	m.albumList, cmd = m.albumList.Update(msg)
	return m, cmd
}

func (m *Model) handleAlbumFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.editing {
			m.gallery.ExitEdit()
		}
		m.view = m.afterFormView()
		return m, nil
	case "tab":
		m.focusDesc = !m.focusDesc
		if m.focusDesc {
			m.titleInput.Blur()
			return m, m.descInput.Focus()
		}
		m.descInput.Blur()
		return m, m.titleInput.Focus()
	case "enter":
		title := strings.TrimSpace(m.titleInput.Value())
		desc := m.descInput.Value()
		return m, m.saveAlbum(title, desc)
	case "ctrl+d":
		if m.editing && m.gallery.StartDeleteSelect() {
			m.view = PhotoListView
			m.syncPhotoList()
		}
		return m, nil
	}
	return m.updateFocused(msg)
}

func (m *Model) handlePhotoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.gallery.PhotoMode()

	switch mode {
	case client.PhotoView:
		if msg.String() == "esc" || msg.String() == "q" {
			m.gallery.ClosePhotoView()
		}
		return m, nil

	case client.PhotoDeleteConfirm:
		switch msg.String() {
		case "y":
			return m, m.deleteSelected()
		case "n", "esc":
			m.gallery.CancelDeleteConfirm()
		}
		return m, nil

	case client.AlbumSettings:
		if m.confirmAlbumDelete {
			switch msg.String() {
			case "y":
				return m, m.deleteAlbum()
			case "n", "esc":
				m.confirmAlbumDelete = false
			}
			return m, nil
		}
		switch msg.String() {
		case "c":
			m.gallery.StartCoverPick()
		case "x":
			m.confirmAlbumDelete = true
		case "esc", "q":
			m.gallery.CloseSettings()
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		switch mode {
		case client.PhotoCoverPick:
			m.gallery.CancelCoverPick()
		case client.PhotoDeleteSelect:
			m.gallery.CancelDeleteSelect()
			m.syncPhotoList()
		default:
			m.gallery.ShowAlbums()
			m.view = AlbumListView
			m.syncAlbumList()
		}
		return m, nil
	case "q":
		if mode == client.PhotoNormal {
			return m, tea.Quit
		}
	case "e":
		if mode == client.PhotoNormal && m.gallery.EnterEdit() {
			album, _ := m.gallery.CurrentAlbum()
			m.editing = true
			m.titleInput.SetValue(album.Title)
			m.descInput.SetValue(album.Description)
			m.focusDesc = false
			m.descInput.Blur()
			m.view = AlbumFormView
			return m, m.titleInput.Focus()
		}
		return m, nil
	case "s":
		m.gallery.OpenSettings()
		return m, nil
	case "u":
		if mode == client.PhotoNormal {
			m.pathInput.SetValue("")
			m.view = UploadView
			return m, m.pathInput.Focus()
		}
		return m, nil
	case " ":
		if mode == client.PhotoDeleteSelect {
			if item, ok := m.photoList.SelectedItem().(photoItem); ok {
				return m, m.clickPhoto(item.photo.ID)
			}
		}
		return m, nil
	case "d":
		if mode == client.PhotoDeleteSelect {
			m.gallery.RequestDeleteConfirm()
		}
		return m, nil
	case "enter":
		if item, ok := m.photoList.SelectedItem().(photoItem); ok {
			return m, m.clickPhoto(item.photo.ID)
		}
	}
	var cmd tea.Cmd
	m.photoList, cmd = m.photoList.Update(msg)
	return m, cmd
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PhotoListView
		return m, nil
	case "enter":
		names := strings.Split(m.pathInput.Value(), ",")
		files := make([]client.UploadFile, 0, len(names))
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			content, err := os.ReadFile(name)
			if err != nil {
				m.err = err
				return m, nil
			}
			files = append(files, client.UploadFile{Name: path.Base(name), Content: content})
		}
		if len(files) == 0 {
			return m, nil
		}
		m.status = fmt.Sprintf("uploading %d file(s)...", len(files))
		return m, m.uploadFiles(files)
	}
	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LoginView:
		if m.focusPassword {
			m.passwordInput, cmd = m.passwordInput.Update(msg)
		} else {
			m.emailInput, cmd = m.emailInput.Update(msg)
		}
	case AlbumFormView:
		if m.focusDesc {
			m.descInput, cmd = m.descInput.Update(msg)
		} else {
			m.titleInput, cmd = m.titleInput.Update(msg)
		}
	case UploadView:
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) listSize() (int, int) {
	width, height := m.width-4, m.height-8
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return width, height
}

func (m *Model) syncAlbumList() {
	albums := m.gallery.Albums()
	items := make([]list.Item, len(albums))
	for i, album := range albums {
		items[i] = albumItem{album: album}
	}
	width, height := m.listSize()
	m.albumList = list.New(items, list.NewDefaultDelegate(), width, height)
	m.albumList.Title = "Albums"
}

func (m *Model) syncPhotoList() {
	photos := m.gallery.Photos()
	items := make([]list.Item, len(photos))
	for i, photo := range photos {
		items[i] = photoItem{photo: photo, selected: m.gallery.IsSelected(photo.ID)}
	}
	width, height := m.listSize()
	m.photoList = list.New(items, list.NewDefaultDelegate(), width, height)
	if album, ok := m.gallery.CurrentAlbum(); ok {
		m.photoList.Title = album.Title
	}
}

func (m *Model) renderLogin() string {
	action := "Log in"
	if m.registering {
		action = "Register"
	}
	title := styles.title.Render(action)
	form := fmt.Sprintf("%s\n%s", m.emailInput.View(), m.passwordInput.View())
	hint := styles.help.Render("enter submit • tab switch field • ctrl+r toggle register • ctrl+c quit")
	body := fmt.Sprintf("%s\n%s\n\n%s", title, form, hint)
	if authErr := m.gallery.AuthError(); authErr != "" {
		body += "\n\n" + styles.err.Render(authErr)
	}
	return body
}

func (m *Model) renderAlbumList() string {
	hint := styles.help.Render("enter open • n new album • ctrl+l log out • q quit")
	body := fmt.Sprintf("%s\n\n%s", m.albumList.View(), hint)
	if m.err != nil {
		body += "\n" + styles.err.Render(m.err.Error())
	}
	return body
}

func (m *Model) renderAlbumForm() string {
	heading := "New album"
	hint := "enter save • tab switch field • esc cancel"
	if m.editing {
		heading = "Edit album"
		hint = "enter save • tab switch field • ctrl+d delete photos • esc cancel"
	}
	body := fmt.Sprintf("%s\n%s\n%s\n\n%s",
		styles.title.Render(heading),
		m.titleInput.View(),
		m.descInput.View(),
		styles.help.Render(hint))
	if m.err != nil {
		body += "\n\n" + styles.err.Render(m.err.Error())
	}
	return body
}

func (m *Model) renderPhotoList() string {
	if m.gallery.LoadingPhotos() {
		return styles.help.Render("loading photos...")
	}

	switch m.gallery.PhotoMode() {
	case client.PhotoView:
		photo, ok := m.gallery.ViewedPhoto()
		if !ok {
			return ""
		}
		return fmt.Sprintf("%s\n%s\n\n%s",
			styles.title.Render(path.Base(photo.URL)),
			photo.URL,
			styles.help.Render("esc back"))

	case client.PhotoDeleteConfirm:
		count := m.gallery.SelectedCount()
		return fmt.Sprintf("%s\n\n%s",
			styles.warn.Render(fmt.Sprintf("Delete %d photo(s)?", count)),
			styles.help.Render("y delete • n cancel"))

	case client.AlbumSettings:
		album, _ := m.gallery.CurrentAlbum()
		if m.confirmAlbumDelete {
			return fmt.Sprintf("%s\n\n%s",
				styles.warn.Render(fmt.Sprintf("Delete album '%s' and all its photos?", album.Title)),
				styles.help.Render("y delete • n cancel"))
		}
		cover := album.CoverPhotoURL
		if cover == "" {
			cover = "none"
		}
		return fmt.Sprintf("%s\nCover: %s\n\n%s",
			styles.title.Render("Album settings"),
			cover,
			styles.help.Render("c pick cover • x delete album • esc close"))
	}

	var hint string
	switch m.gallery.PhotoMode() {
	case client.PhotoCoverPick:
		hint = styles.prompt.Render("pick a cover photo") + "  " +
			m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})
	case client.PhotoDeleteSelect:
		hint = styles.prompt.Render("select photos to delete") + "  " +
			m.help.ShortHelpView([]key.Binding{m.keys.toggle, m.keys.back})
	default:
		hint = styles.help.Render("enter view • e edit • s settings • u upload • esc albums • q quit")
	}

	body := fmt.Sprintf("%s\n\n%s", m.photoList.View(), hint)
	if pending := m.gallery.PendingUploads(); pending > 0 {
		body += "\n" + styles.warn.Render(fmt.Sprintf("%d upload(s) in progress", pending))
	}
	if m.status != "" {
		body += "\n" + styles.ok.Render(m.status)
	}
	if m.err != nil {
		body += "\n" + styles.err.Render(m.err.Error())
	}
	return body
}

func (m *Model) renderUpload() string {
	return fmt.Sprintf("%s\n%s\n\n%s",
		styles.title.Render("Upload photos"),
		m.pathInput.View(),
		styles.help.Render("comma-separated file paths • enter upload • esc cancel"))
}

func (m *Model) authenticate(email, password string) tea.Cmd {
	return func() tea.Msg {
		var err error
		if m.registering {
			err = m.gallery.Register(m.ctx, email, password)
		} else {
			err = m.gallery.Login(m.ctx, email, password)
		}
		return authDoneMsg{err: err}
	}
}

func (m *Model) loadAlbums() tea.Cmd {
	return func() tea.Msg {
		return albumsLoadedMsg{err: m.gallery.LoadAlbums(m.ctx)}
	}
}

func (m *Model) openAlbum(albumID uint64) tea.Cmd {
	return func() tea.Msg {
		return albumOpenedMsg{err: m.gallery.OpenAlbum(m.ctx, albumID)}
	}
}

func (m *Model) saveAlbum(title, description string) tea.Cmd {
	editing := m.editing
	return func() tea.Msg {
		var err error
		if editing {
			err = m.gallery.UpdateAlbum(m.ctx, title, description)
			if err == nil {
				m.gallery.ExitEdit()
			}
		} else {
			err = m.gallery.CreateAlbum(m.ctx, title, description)
		}
		return albumSavedMsg{err: err}
	}
}

func (m *Model) deleteAlbum() tea.Cmd {
	return func() tea.Msg {
		return albumDeletedMsg{err: m.gallery.DeleteCurrentAlbum(m.ctx)}
	}
}

func (m *Model) clickPhoto(photoID uint64) tea.Cmd {
	return func() tea.Msg {
		return clickedMsg{err: m.gallery.ClickPhoto(m.ctx, photoID)}
	}
}

func (m *Model) deleteSelected() tea.Cmd {
	return func() tea.Msg {
		return photosDeletedMsg{failed: m.gallery.DeleteSelected(m.ctx)}
	}
}

func (m *Model) uploadFiles(files []client.UploadFile) tea.Cmd {
	return func() tea.Msg {
		return uploadedMsg{errs: m.gallery.UploadFiles(m.ctx, files)}
	}
}
