package models

// Photo rows are immutable once created. PublicID is the opaque media store
// object name; URL is the denormalized public location of that object.
type Photo struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	AlbumID    uint64 `gorm:"not null;index:album_photo_uploaded,priority:1" json:"album_id"`
	Album      Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID     uint64 `gorm:"not null;index" json:"user_id"`
	User       User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UploadedAt int64  `gorm:"autoCreateTime;index:album_photo_uploaded,priority:2" json:"uploaded_at"`
	URL        string `gorm:"type:varchar(500);not null" json:"url"`
	ThumbURL   string `gorm:"type:varchar(500)" json:"thumb_url"`
	PublicID   string `gorm:"type:varchar(300);not null" json:"public_id"`
}
