package handlers

import (
	"ourphotos/auth"

	"github.com/gin-gonic/gin"
)

// MountRoutes attaches every endpoint to the engine. Album and photo routes
// sit behind the bearer-token middleware.
func MountRoutes(router *gin.Engine, api *API) {
	router.POST("/register", api.Register)
	router.POST("/login", api.Login)

	authorized := router.Group("/", auth.Require(api.DB))
	authorized.GET("/albums", api.AlbumList)
	authorized.POST("/albums", api.AlbumCreate)
	authorized.PATCH("/albums/:id", api.AlbumUpdate)
	authorized.DELETE("/albums/:id", api.AlbumDelete)
	authorized.PATCH("/albums/:id/cover", api.AlbumSetCover)
	authorized.GET("/albums/:id/photos", api.PhotoList)
	authorized.POST("/albums/:id/photos", api.PhotoUpload)
	authorized.DELETE("/albums/:id/photos/:photoId", api.PhotoDelete)
}
