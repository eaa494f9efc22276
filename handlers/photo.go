package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"ourphotos/auth"
	"ourphotos/media"
	"ourphotos/models"
	"ourphotos/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const thumbSize = 512

func (a *API) PhotoList(c *gin.Context) {
	user := auth.CurrentUser(c)
	album, ok := a.loadOwnAlbum(c, user.ID)
	if !ok {
		return
	}
	photos := []models.Photo{}
	err := a.DB.
		Where("album_id = ?", album.ID).
		Order("uploaded_at DESC, id DESC").
		Find(&photos).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (a *API) PhotoUpload(c *gin.Context) {
	user := auth.CurrentUser(c)
	album, ok := a.loadOwnAlbum(c, user.ID)
	if !ok {
		return
	}
	file, err := c.FormFile("photoFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no file attached"})
		return
	}
	if file.Size > MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file too large"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no file attached"})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	objectName := media.NewObjectName(user.ID, album.ID, file.Filename)
	url, err := a.Media.Upload(c.Request.Context(), objectName, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		log.Printf("media upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "upload failed"})
		return
	}

	// Thumbnail generation is best-effort; non-image uploads simply skip it.
	thumbName, thumbURL := "", ""
	var thumb bytes.Buffer
	if _, err := utils.CreateThumb(thumbSize, bytes.NewReader(data), &thumb); err == nil {
		thumbName = media.ThumbObjectName(objectName)
		thumbURL, err = a.Media.Upload(c.Request.Context(), thumbName, &thumb, int64(thumb.Len()), "image/jpeg")
		if err != nil {
			log.Printf("thumbnail upload failed for %s: %v", objectName, err)
			thumbName, thumbURL = "", ""
		}
	}

	photo := models.Photo{
		AlbumID:  album.ID,
		UserID:   user.ID,
		URL:      url,
		ThumbURL: thumbURL,
		PublicID: objectName,
	}
	if err := a.DB.Create(&photo).Error; err != nil {
		// The object is already in the media store; hand it to cleanup so it
		// does not stay orphaned there.
		a.orphaned(objectName, thumbName)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not save photo"})
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (a *API) PhotoDelete(c *gin.Context) {
	user := auth.CurrentUser(c)
	album, ok := a.loadOwnAlbum(c, user.ID)
	if !ok {
		return
	}
	photoID, err := strconv.ParseUint(c.Param("photoId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "photo not found"})
		return
	}
	var photo models.Photo
	err = a.DB.First(&photo, "id = ? AND album_id = ? AND user_id = ?", photoID, album.ID, user.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "photo not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		}
		return
	}
	if err := a.DB.Delete(&models.Photo{}, photo.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	// Row is gone either way; media removal is best-effort.
	if err := a.Media.Delete(c.Request.Context(), photo.PublicID); err != nil {
		log.Printf("media delete failed for %s: %v", photo.PublicID, err)
		a.orphaned(photo.PublicID)
	}
	if photo.ThumbURL != "" {
		if err := a.Media.Delete(c.Request.Context(), media.ThumbObjectName(photo.PublicID)); err != nil {
			a.orphaned(media.ThumbObjectName(photo.PublicID))
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo deleted", "id": photo.ID})
}
