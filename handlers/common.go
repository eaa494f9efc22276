package handlers

import (
	"ourphotos/cleanup"
	"ourphotos/media"

	"gorm.io/gorm"
)

// Uploads above this are rejected before touching the media store.
const MaxUploadSize = 10 << 20 // 10 MiB

// API carries the injected persistence handle and media store. Every handler
// is a method on it; nothing in this package reaches for globals.
type API struct {
	DB      *gorm.DB
	Media   media.Store
	Cleanup *cleanup.Reconciler
}

func NewAPI(db *gorm.DB, store media.Store, reconciler *cleanup.Reconciler) *API {
	return &API{DB: db, Media: store, Cleanup: reconciler}
}

// orphaned hands object names to the reconciler, if one is attached.
func (a *API) orphaned(objectNames ...string) {
	if a.Cleanup == nil {
		return
	}
	a.Cleanup.Enqueue(objectNames...)
}
