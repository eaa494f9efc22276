package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ourphotos/auth"
	"ourphotos/media"
	"ourphotos/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AlbumSaveRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AlbumCoverRequest struct {
	PhotoURL string `json:"photoUrl"`
}

func albumIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}

// loadOwnAlbum collapses "absent" and "not yours" into one miss so callers
// cannot probe other users' album ids.
func (a *API) loadOwnAlbum(c *gin.Context, userID uint64) (models.Album, bool) {
	id, ok := albumIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "album not found"})
		return models.Album{}, false
	}
	var album models.Album
	err := a.DB.First(&album, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "album not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		}
		return models.Album{}, false
	}
	return album, true
}

func (a *API) AlbumList(c *gin.Context) {
	user := auth.CurrentUser(c)
	albums := []models.Album{}
	err := a.DB.
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&albums).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, albums)
}

func (a *API) AlbumCreate(c *gin.Context) {
	user := auth.CurrentUser(c)
	req := AlbumSaveRequest{}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
		return
	}
	album := models.Album{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := a.DB.Create(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, album)
}

func (a *API) AlbumUpdate(c *gin.Context) {
	user := auth.CurrentUser(c)
	req := AlbumSaveRequest{}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
		return
	}
	album, ok := a.loadOwnAlbum(c, user.ID)
	if !ok {
		return
	}
	// UserID is never part of the update set.
	err := a.DB.Model(&album).Updates(map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "album updated",
		"id":          album.ID,
		"title":       req.Title,
		"description": req.Description,
	})
}

func (a *API) AlbumDelete(c *gin.Context) {
	user := auth.CurrentUser(c)
	album, ok := a.loadOwnAlbum(c, user.ID)
	if !ok {
		return
	}
	// The DB cascade removes the photo rows; the media objects have to be
	// reclaimed by us. Collect their names before the rows disappear.
	var publicIDs []string
	if err := a.DB.Model(&models.Photo{}).Where("album_id = ?", album.ID).Pluck("public_id", &publicIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	if err := a.DB.Delete(&models.Album{}, "id = ? AND user_id = ?", album.ID, user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	for _, publicID := range publicIDs {
		a.orphaned(publicID, media.ThumbObjectName(publicID))
	}
	c.JSON(http.StatusOK, gin.H{"message": "album deleted", "id": album.ID})
}

func (a *API) AlbumSetCover(c *gin.Context) {
	user := auth.CurrentUser(c)
	req := AlbumCoverRequest{}
	if err := c.ShouldBindJSON(&req); err != nil || req.PhotoURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "photoUrl is required"})
		return
	}
	album, ok := a.loadOwnAlbum(c, user.ID)
	if !ok {
		return
	}
	// Setting the same URL again is a harmless no-op.
	if err := a.DB.Model(&album).Update("cover_photo_url", req.PhotoURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cover updated", "coverUrl": req.PhotoURL})
}
